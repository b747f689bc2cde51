package store

import "errors"

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrStaffNotFound    = errors.New("staff member not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrEntryNotFound    = errors.New("waiting list entry not found")

	ErrInvalidTransition = errors.New("booking status transition not allowed")
)
