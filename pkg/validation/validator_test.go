package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"firstName" validate:"required,noprofanity"`
	Password string `json:"password" validate:"pwd"`
	Phone    string `form:"phone" validate:"omitempty,phone"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestContainsProfanity(t *testing.T) {
	assert.True(t, ContainsProfanity("what the hell"))
	assert.True(t, ContainsProfanity("FUCKING car"))
	assert.True(t, ContainsProfanity("це жопа"))
	assert.False(t, ContainsProfanity("Shelly"))
	assert.False(t, ContainsProfanity("hello"))
	assert.False(t, ContainsProfanity("Cockburn"))
}

func TestRegister_Rules(t *testing.T) {
	v := newValidator()

	require.NoError(t, v.Struct(sample{Name: "Ann", Password: "p1", Phone: "+380501112233"}))

	err := v.Struct(sample{Name: "damn", Password: "p1"})
	require.Error(t, err)
	assert.Equal(t, ProfanityMessage, FirstMessage(err))
	assert.Equal(t, map[string]string{"firstName": ProfanityMessage}, ToDetails(err))

	err = v.Struct(sample{Name: "Ann", Password: "p"})
	require.Error(t, err)
	assert.Equal(t, "must be at least 2 characters long", ToDetails(err)["password"])

	err = v.Struct(sample{Name: "Ann", Password: "p1", Phone: "12"})
	require.Error(t, err)
	assert.Contains(t, ToDetails(err), "phone")
}

func TestToDetails_Nil(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
}
