package validator

import (
	"strings"
	"testing"

	"bookhaus/pkg/logger"
	"bookhaus/pkg/model"
)

func newTestValidator() *CandidateValidator {
	return NewCandidateValidator(logger.New(logger.Config{Level: "error", Service: "test"}))
}

func validCandidate() model.Candidate {
	return model.Candidate{
		Date:        "2025-06-10",
		StartTime:   "10:00",
		EndTime:     "11:00",
		CustomerID:  "cust_1",
		StaffID:     "staff_1",
		ResourceIDs: []string{"resource_1"},
		ServiceID:   "service_1",
	}
}

func TestValidateCandidate(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name        string
		mutate      func(*model.Candidate)
		wantErr     bool
		wantMessage string
	}{
		{
			name:    "valid candidate",
			mutate:  func(*model.Candidate) {},
			wantErr: false,
		},
		{
			name:        "missing date",
			mutate:      func(c *model.Candidate) { c.Date = "" },
			wantErr:     true,
			wantMessage: "Date is required",
		},
		{
			name:        "slash date format",
			mutate:      func(c *model.Candidate) { c.Date = "10/06/2025" },
			wantErr:     true,
			wantMessage: "YYYY-MM-DD",
		},
		{
			name:        "twelve hour time",
			mutate:      func(c *model.Candidate) { c.StartTime = "10:00am" },
			wantErr:     true,
			wantMessage: "HH:MM",
		},
		{
			name:        "missing customer",
			mutate:      func(c *model.Candidate) { c.CustomerID = "" },
			wantErr:     true,
			wantMessage: "CustomerID is required",
		},
		{
			name:        "empty resource list",
			mutate:      func(c *model.Candidate) { c.ResourceIDs = []string{} },
			wantErr:     true,
			wantMessage: "at least 1",
		},
		{
			name:        "blank resource id",
			mutate:      func(c *model.Candidate) { c.ResourceIDs = []string{""} },
			wantErr:     true,
			wantMessage: "required",
		},
		{
			name:        "end before start",
			mutate:      func(c *model.Candidate) { c.StartTime = "11:00"; c.EndTime = "10:00" },
			wantErr:     true,
			wantMessage: "end_time must be after start_time",
		},
		{
			name:        "zero length slot",
			mutate:      func(c *model.Candidate) { c.EndTime = c.StartTime },
			wantErr:     true,
			wantMessage: "end_time must be after start_time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand := validCandidate()
			tt.mutate(&cand)

			err := v.Validate(&cand)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMessage) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMessage)
			}
		})
	}
}

func TestValidateEntry(t *testing.T) {
	v := newTestValidator()

	entry := model.WaitingListEntry{
		Date:       "2025-06-10",
		StartTime:  "10:00",
		EndTime:    "11:00",
		CustomerID: "cust_1",
	}
	if err := v.ValidateEntry(&entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Preferences are optional; a populated set is fine too.
	entry.StaffID = "staff_1"
	entry.ResourceIDs = []string{"resource_1"}
	if err := v.ValidateEntry(&entry); err != nil {
		t.Fatalf("unexpected error with preferences: %v", err)
	}

	entry.EndTime = "09:00"
	if err := v.ValidateEntry(&entry); err == nil {
		t.Fatal("expected reversed interval to be rejected")
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "Date", Message: "Date is required"},
		{Field: "StartTime", Message: "StartTime must be in HH:MM format"},
	}
	got := errs.Error()
	if !strings.Contains(got, "2 error(s)") {
		t.Errorf("message %q does not carry the count", got)
	}
	if !strings.Contains(got, "Date is required") {
		t.Errorf("message %q does not carry the field errors", got)
	}
}
