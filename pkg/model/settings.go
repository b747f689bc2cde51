package model

// Settings is the process-wide configuration record owned by the store.
// FirstDayOfWeek shifts calendar week boundaries; AutoNotifyWaitingList gates
// the waiting-list matcher's side effects.
type Settings struct {
	FirstDayOfWeek        string `json:"first_day_of_week" bson:"first_day_of_week" validate:"required,oneof=monday sunday"`
	AutoNotifyWaitingList bool   `json:"auto_notify_waiting_list" bson:"auto_notify_waiting_list"`
}
