package model

import (
	"slices"
	"time"
)

// Booking is one committed slot: a customer with one staff member and one or
// more resources on a given date. Times are "HH:MM", dates "YYYY-MM-DD".
type Booking struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Date         string    `json:"date" bson:"date" validate:"required,booking_date"`
	StartTime    string    `json:"start_time" bson:"start_time" validate:"required,clock_time"`
	EndTime      string    `json:"end_time" bson:"end_time" validate:"required,clock_time"`
	CustomerID   string    `json:"customer_id" bson:"customer_id" validate:"required"`
	StaffID      string    `json:"staff_id" bson:"staff_id" validate:"required"`
	ResourceIDs  []string  `json:"resource_ids" bson:"resource_ids" validate:"required,min=1,dive,required"`
	ServiceID    string    `json:"service_id" bson:"service_id" validate:"required"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=Scheduled Completed Cancelled"`
	Pickup       string    `json:"pickup,omitempty" bson:"pickup,omitempty"`
	StartReading *float64  `json:"start_reading,omitempty" bson:"start_reading,omitempty"`
	EndReading   *float64  `json:"end_reading,omitempty" bson:"end_reading,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// UsesResource reports whether the booking references the given resource.
func (b *Booking) UsesResource(resourceID string) bool {
	return slices.Contains(b.ResourceIDs, resourceID)
}

// SharesResource reports whether the booking's resource set intersects ids.
func (b *Booking) SharesResource(ids []string) bool {
	for _, id := range ids {
		if b.UsesResource(id) {
			return true
		}
	}
	return false
}

// Candidate is a proposed, not-yet-committed booking undergoing compliance
// and conflict checks. It becomes a Booking on save.
type Candidate struct {
	Date        string   `json:"date" validate:"required,booking_date"`
	StartTime   string   `json:"start_time" validate:"required,clock_time"`
	EndTime     string   `json:"end_time" validate:"required,clock_time"`
	CustomerID  string   `json:"customer_id" validate:"required"`
	StaffID     string   `json:"staff_id" validate:"required"`
	ResourceIDs []string `json:"resource_ids" validate:"required,min=1,dive,required"`
	ServiceID   string   `json:"service_id" validate:"required"`
	Pickup      string   `json:"pickup,omitempty"`
}

// WeekDay is one day column of a week plan: a date and its scheduled
// bookings in start order.
type WeekDay struct {
	Date     string    `json:"date"`
	Bookings []Booking `json:"bookings"`
}

// Suggestion is an alternative slot that resolves a detected conflict. Staff
// and resources default to the candidate's own when the phase only moved the
// time.
type Suggestion struct {
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	StaffID     string   `json:"staff_id"`
	ResourceIDs []string `json:"resource_ids"`
}
