package model

import "time"

// WaitingListEntry records a customer request for a slot that was not
// available. Staff and resource preferences are optional; empty means any.
// AddedAt orders first-come-first-served matching.
type WaitingListEntry struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Date        string    `json:"date" bson:"date" validate:"required,booking_date"`
	StartTime   string    `json:"start_time" bson:"start_time" validate:"required,clock_time"`
	EndTime     string    `json:"end_time" bson:"end_time" validate:"required,clock_time"`
	CustomerID  string    `json:"customer_id" bson:"customer_id" validate:"required"`
	StaffID     string    `json:"staff_id,omitempty" bson:"staff_id,omitempty"`
	ResourceIDs []string  `json:"resource_ids,omitempty" bson:"resource_ids,omitempty"`
	AddedAt     time.Time `json:"added_at" bson:"added_at"`
	Served      bool      `json:"served" bson:"served"`
}

// NotificationEvent tells the external notification channel that a freed slot
// matched a waiting entry. The engine decides that and to whom; delivery is
// someone else's job.
type NotificationEvent struct {
	CustomerID  string    `json:"customer_id"`
	EntryID     string    `json:"entry_id"`
	BookingID   string    `json:"booking_id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	StaffID     string    `json:"staff_id"`
	ResourceIDs []string  `json:"resource_ids"`
	EmittedAt   time.Time `json:"emitted_at"`
}
