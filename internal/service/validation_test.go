package service

import (
	"strings"
	"testing"
)

func TestContentFormValidate(t *testing.T) {
	cases := []struct {
		name    string
		form    ContentForm
		wantErr string
	}{
		{name: "valid", form: ContentForm{Title: "Hello", Text: "<p>body</p>"}},
		{name: "missing title", form: ContentForm{Text: "<p>body</p>"}, wantErr: "title"},
		{name: "long title", form: ContentForm{Title: strings.Repeat("t", 121), Text: "body"}, wantErr: "title"},
		{name: "markup only", form: ContentForm{Title: "Hello", Text: "<p> </p>"}, wantErr: "text"},
		{name: "visible limit", form: ContentForm{Title: "Hello", Text: "<p>" + strings.Repeat("x", 2001) + "</p>"}, wantErr: "text"},
		{name: "markup not counted", form: ContentForm{Title: "Hello", Text: "<p><strong>" + strings.Repeat("x", 2000) + "</strong></p>"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := tc.form
			if err := form.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			err := form.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid form, got %v", err)
				}
				return
			}
			fields, ok := ValidationErrors(err)
			if !ok {
				t.Fatalf("expected validation errors, got %v", err)
			}
			if _, exists := fields[tc.wantErr]; !exists {
				t.Fatalf("expected error on %q, got %v", tc.wantErr, fields)
			}
		})
	}
}

func TestCommentFormLength(t *testing.T) {
	if err := (CommentForm{Text: strings.Repeat("c", 500)}).Validate(); err != nil {
		t.Fatalf("500 characters should be accepted: %v", err)
	}
	if err := (CommentForm{Text: strings.Repeat("c", 501)}).Validate(); err == nil {
		t.Fatalf("501 characters should be rejected")
	}
	if err := (CommentForm{Text: strings.Repeat("字", 500)}).Validate(); err != nil {
		t.Fatalf("limit counts characters, not bytes: %v", err)
	}
}

func TestSignUpFormValidate(t *testing.T) {
	valid := SignUpForm{
		FirstName:    "John",
		LastName:     "Doe",
		Email:        " JDoe@Example.com ",
		Password1:    "long-enough",
		Password2:    "long-enough",
		AgreeToTerms: true,
	}
	valid.normalize()
	if valid.Email != "jdoe@example.com" {
		t.Fatalf("expected normalized email, got %q", valid.Email)
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}

	cases := map[string]func(f *SignUpForm){
		"password2":      func(f *SignUpForm) { f.Password2 = "different-one" },
		"password1":      func(f *SignUpForm) { f.Password1, f.Password2 = "12345678901", "12345678901" },
		"agree_to_terms": func(f *SignUpForm) { f.AgreeToTerms = false },
		"email":          func(f *SignUpForm) { f.Email = "not-an-email" },
		"first_name":     func(f *SignUpForm) { f.FirstName = "" },
	}
	for field, mutate := range cases {
		form := valid
		mutate(&form)
		fields, ok := ValidationErrors(form.Validate())
		if !ok {
			t.Fatalf("%s: expected validation errors", field)
		}
		if _, exists := fields[field]; !exists {
			t.Fatalf("%s: expected field error, got %v", field, fields)
		}
	}
}

func TestProfileFormPhone(t *testing.T) {
	base := ProfileForm{FirstName: "A", LastName: "B", Email: "a@example.com"}

	for _, phone := range []string{"", "+12345678901", "123456789"} {
		form := base
		form.Phone = phone
		if err := form.Validate(); err != nil {
			t.Fatalf("phone %q should be valid: %v", phone, err)
		}
	}
	for _, phone := range []string{"12345", "+1-234-567-8901", "phone-number"} {
		form := base
		form.Phone = phone
		if err := form.Validate(); err == nil {
			t.Fatalf("phone %q should be rejected", phone)
		}
	}
}
