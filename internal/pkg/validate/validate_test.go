package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email string `validate:"required,email"`
}

type formSample struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password,omitempty" validate:"required"`
}

func TestStruct_OK(t *testing.T) {
	assert.NoError(t, Struct(&sample{Email: "a@b.com"}))
}

func TestStruct_ReportsFieldAndTag(t *testing.T) {
	err := Struct(&sample{Email: "nope"})
	assert.EqualError(t, err, "field 'Email' failed 'email'")
}

func TestStruct_UsesFormNames(t *testing.T) {
	err := Struct(&formSample{Email: "nope"})
	assert.EqualError(t, err, "field 'email' failed 'email'; field 'password' failed 'required'")
}
