package model

// Staff is a bookable member of staff and the services they offer.
type Staff struct {
	ID         string   `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string   `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Email      string   `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Phone      string   `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	ServiceIDs []string `json:"service_ids" bson:"service_ids"`
}

// Offers reports whether the staff member provides the given service. An
// empty service list means the member offers everything.
func (s *Staff) Offers(serviceID string) bool {
	if len(s.ServiceIDs) == 0 {
		return true
	}
	for _, id := range s.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

type Customer struct {
	ID    string `json:"id,omitempty" bson:"_id,omitempty"`
	Name  string `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Email string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
}

type Service struct {
	ID          string `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string `json:"name" bson:"name" validate:"required,min=1,max=100"`
	DurationMin int    `json:"duration_min" bson:"duration_min" validate:"required,min=5,max=480"`
}
