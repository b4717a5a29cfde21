package memberdomain

// Draft is an unsubmitted snapshot of in-progress wizard input, persisted per
// draft token and cleared on successful submission.
//
// Sensitive fields are stripped before a draft is stored. The exclusion list
// lives here, next to the form, so the contract is explicit rather than an
// ambient side effect.

// SensitiveFields names the form fields that never reach draft storage.
var SensitiveFields = []string{"password", "password_confirm"}

// SanitizeForDraft returns a copy of the form with the sensitive fields cleared.
func (f *RegistrationForm) SanitizeForDraft() RegistrationForm {
	clean := *f
	clean.Password = ""
	clean.PasswordConfirm = ""
	return clean
}
