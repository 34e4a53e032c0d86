// Package contact implements the contact-form submission pipeline: honeypot
// check, schema validation, bot verification, rate limiting, spam scanning,
// and email dispatch. Each stage short-circuits; the caller only ever sees
// the generic category message, never the internal reason.
package contact

import (
	"fmt"
	"net/mail"
)

// ConsultationAreas is the fixed set of areas a submitter may request.
var ConsultationAreas = []string{
	"Research",
	"AI Development",
	"AI Engineering",
	"US Residency and Match",
	"Research Fellowship Application",
	"Radiology AI",
	"Clinical AI",
	"Other",
}

// Submission is the contact-form payload.
type Submission struct {
	Subject               string   `json:"subject"`
	Name                  string   `json:"name"`
	Email                 string   `json:"email"`
	Message               string   `json:"message"`
	RequestConsultation   bool     `json:"requestConsultation"`
	ConsultationAreas     []string `json:"consultationAreas"`
	OtherConsultationArea string   `json:"otherConsultationArea"`
	Honeypot              string   `json:"honeypot"`
	RecaptchaToken        string   `json:"recaptchaToken"`
}

// FieldErrors maps field names to validation messages.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Validate checks the submission against the form schema and returns
// field-level messages, or nil when the submission is valid.
func (s *Submission) Validate() FieldErrors {
	errs := FieldErrors{}
	if s.Subject == "" {
		errs.add("subject", "Subject is required")
	} else if len(s.Subject) > 100 {
		errs.add("subject", "Subject must be less than 100 characters")
	}
	if s.Name == "" {
		errs.add("name", "Name is required")
	} else if len(s.Name) > 100 {
		errs.add("name", "Name must be less than 100 characters")
	}
	if s.Email == "" {
		errs.add("email", "Email is required")
	} else if _, err := mail.ParseAddress(s.Email); err != nil {
		errs.add("email", "Please enter a valid email address")
	}
	if len(s.Message) < 10 {
		errs.add("message", "Message must be at least 10 characters")
	} else if len(s.Message) > 1000 {
		errs.add("message", "Message must be less than 1000 characters")
	}
	if s.Honeypot != "" {
		errs.add("honeypot", "This field should be left empty")
	}
	for _, area := range s.ConsultationAreas {
		if !validArea(area) {
			errs.add("consultationAreas", fmt.Sprintf("Unknown consultation area: %s", area))
		}
	}
	if s.RequestConsultation && len(s.ConsultationAreas) == 0 {
		errs.add("consultationAreas", "Please select at least one consultation area")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validArea(area string) bool {
	for _, a := range ConsultationAreas {
		if a == area {
			return true
		}
	}
	return false
}
