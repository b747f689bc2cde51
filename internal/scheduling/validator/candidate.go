package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"bookhaus/pkg/logger"
	"bookhaus/pkg/model"
	"bookhaus/pkg/timeslot"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type CandidateValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCandidateValidator(log *logger.Logger) *CandidateValidator {
	v := validator.New()

	if err := v.RegisterValidation("clock_time", validateClockTime); err != nil {
		log.Fatal("Failed to register 'clock_time' validator", "error", err)
	}
	if err := v.RegisterValidation("booking_date", validateBookingDate); err != nil {
		log.Fatal("Failed to register 'booking_date' validator", "error", err)
	}

	log.Info("Candidate validator initialized successfully")

	return &CandidateValidator{
		validate: v,
		logger:   log,
	}
}

func validateClockTime(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	_, err := timeslot.ParseTime(value)
	return err == nil
}

func validateBookingDate(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	_, err := timeslot.ParseDate(value)
	return err == nil
}

// Validate checks a candidate's shape before it reaches the compliance gate
// and conflict detector: references present, times parseable, start strictly
// before end.
func (v *CandidateValidator) Validate(cand *model.Candidate) error {
	if err := v.validate.Struct(cand); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	iv, err := timeslot.NewInterval(cand.StartTime, cand.EndTime)
	if err != nil {
		return ValidationErrors{
			ValidationError{Field: "StartTime", Message: err.Error()},
		}
	}
	if !iv.Valid() {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	return nil
}

// ValidateEntry applies the same shape checks to a waiting list entry.
func (v *CandidateValidator) ValidateEntry(e *model.WaitingListEntry) error {
	if err := v.validate.Struct(e); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	iv, err := timeslot.NewInterval(e.StartTime, e.EndTime)
	if err != nil {
		return ValidationErrors{
			ValidationError{Field: "StartTime", Message: err.Error()},
		}
	}
	if !iv.Valid() {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	return nil
}

func (v *CandidateValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must have at least %s element(s)", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must have at most %s element(s)", err.Field(), err.Param())
		case "clock_time":
			message = fmt.Sprintf("%s must be in HH:MM format", err.Field())
		case "booking_date":
			message = fmt.Sprintf("%s must be in YYYY-MM-DD format", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
