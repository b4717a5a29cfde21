package contactdomain

import (
	"net/mail"
	"strings"
)

// ContactForm is the public contact-page payload.
type ContactForm struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Subject string  `json:"subject"`
	Message string  `json:"message"`
}

// FieldErrors maps field names to their validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the required fields. A nil return means the form may be
// submitted. Phone is the only optional field.
func (f *ContactForm) Validate() FieldErrors {
	fe := FieldErrors{}

	if strings.TrimSpace(f.Name) == "" {
		fe["name"] = "required"
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		fe["email"] = "must be a valid email address"
	}
	if strings.TrimSpace(f.Subject) == "" {
		fe["subject"] = "required"
	}
	if strings.TrimSpace(f.Message) == "" {
		fe["message"] = "required"
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}
