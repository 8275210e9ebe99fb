package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signUpForm struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"required,in=Admin,Seller,Customer"`
	Phone    string  `json:"phone" validate:"nullable,min=7"`
	Website  string  `json:"website" validate:"nullable,url"`
	Price    float64 `json:"price" validate:"nullable,gt=0"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(&signUpForm{
		Email:    "alice@example.com",
		Password: "secret123",
		Role:     "Customer",
	})
	assert.False(t, HasErrors(errs))
}

func TestStructFailures(t *testing.T) {
	tests := []struct {
		name  string
		form  signUpForm
		field string
	}{
		{
			name:  "missing email",
			form:  signUpForm{Password: "secret123", Role: "Customer"},
			field: "email",
		},
		{
			name:  "bad email",
			form:  signUpForm{Email: "nope", Password: "secret123", Role: "Customer"},
			field: "email",
		},
		{
			name:  "short password",
			form:  signUpForm{Email: "a@b.co", Password: "abc", Role: "Customer"},
			field: "password",
		},
		{
			name:  "role outside list",
			form:  signUpForm{Email: "a@b.co", Password: "secret123", Role: "Wizard"},
			field: "role",
		},
		{
			name:  "bad url",
			form:  signUpForm{Email: "a@b.co", Password: "secret123", Role: "Customer", Website: "ftp://x"},
			field: "website",
		},
		{
			name:  "price not positive",
			form:  signUpForm{Email: "a@b.co", Password: "secret123", Role: "Customer", Price: -1},
			field: "price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Struct(&tt.form)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestNullableSkipsEmpty(t *testing.T) {
	errs := Struct(&signUpForm{
		Email:    "alice@example.com",
		Password: "secret123",
		Role:     "Customer",
		// Phone and Website are empty and nullable, so min/url never run.
	})
	assert.False(t, HasErrors(errs))
}

func TestErrorsUseJSONFieldNames(t *testing.T) {
	errs := Struct(&signUpForm{})
	assert.Contains(t, errs, "email")
	assert.NotContains(t, errs, "Email")
}
