package model

// Resource is a bookable physical asset. Vehicles carry registration details,
// an odometer reading, and a maintenance schedule of named checks mapped to
// expiry dates ("YYYY-MM-DD", empty when the check is not tracked).
type Resource struct {
	ID           string            `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string            `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Type         string            `json:"type" bson:"type" validate:"required,oneof=VEHICLE OTHER"`
	Make         string            `json:"make,omitempty" bson:"make,omitempty"`
	Model        string            `json:"model,omitempty" bson:"model,omitempty"`
	Registration string            `json:"registration,omitempty" bson:"registration,omitempty"`
	Odometer     float64           `json:"odometer" bson:"odometer" validate:"gte=0"`
	Maintenance  map[string]string `json:"maintenance,omitempty" bson:"maintenance,omitempty"`

	// IsCompliant is derived from Maintenance by the compliance gate. It is
	// stored for listing only and recomputed at every point of use.
	IsCompliant bool `json:"is_compliant" bson:"is_compliant"`
}

// ResourceListing is a resource as presented for selection. Non-compliant
// vehicles stay visible but are marked not selectable.
type ResourceListing struct {
	Resource
	Selectable bool `json:"selectable"`
}
