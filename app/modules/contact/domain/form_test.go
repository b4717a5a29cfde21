package contactdomain

import "testing"

func validForm() ContactForm {
	return ContactForm{
		Name:    "Anna Smith",
		Email:   "anna@example.com",
		Subject: "Range booking",
		Message: "Is the 50m range open on Saturdays?",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(f *ContactForm)
		wantField string
	}{
		{"valid", func(f *ContactForm) {}, ""},
		{"missing name", func(f *ContactForm) { f.Name = "  " }, "name"},
		{"missing email", func(f *ContactForm) { f.Email = "" }, "email"},
		{"malformed email", func(f *ContactForm) { f.Email = "not-an-address" }, "email"},
		{"missing subject", func(f *ContactForm) { f.Subject = "" }, "subject"},
		{"missing message", func(f *ContactForm) { f.Message = "\t" }, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			fe := form.Validate()
			if tt.wantField == "" {
				if fe != nil {
					t.Fatalf("Validate() = %v, want nil", fe)
				}
				return
			}
			if _, ok := fe[tt.wantField]; !ok {
				t.Errorf("Validate() = %v, want error on %q", fe, tt.wantField)
			}
		})
	}
}

func TestValidatePhoneOptional(t *testing.T) {
	form := validForm()
	if fe := form.Validate(); fe != nil {
		t.Fatalf("Validate() without phone = %v, want nil", fe)
	}

	phone := "+27 82 555 0101"
	form.Phone = &phone
	if fe := form.Validate(); fe != nil {
		t.Fatalf("Validate() with phone = %v, want nil", fe)
	}
}
