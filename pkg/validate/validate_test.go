package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
	"github.com/shashiranjanraj/jwtpizza/pkg/validate"
)

type item struct {
	MenuID uint    `json:"menuId" validate:"required"`
	Price  float64 `json:"price"  validate:"gte=0"`
}

type orderInput struct {
	FranchiseID uint   `json:"franchiseId" validate:"required"`
	Email       string `json:"email"       validate:"omitempty,email"`
	Name        string `json:"name"        validate:"required,min=2,max=20"`
	Items       []item `json:"items"       validate:"required,min=1,dive"`
	Internal    string `json:"-"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(orderInput{
		FranchiseID: 1,
		Name:        "pizza",
		Items:       []item{{MenuID: 1, Price: 0.0038}},
	})
	assert.False(t, validate.HasErrors(errs), "%v", errs)
	assert.Nil(t, errs)
}

func TestErrorsUseJSONNames(t *testing.T) {
	errs := validate.Struct(orderInput{Email: "nope"})

	assert.Equal(t, "franchiseId is required", errs["franchiseId"])
	assert.Equal(t, "email must be a valid email address", errs["email"])
	assert.Equal(t, "name is required", errs["name"])
	assert.Contains(t, errs, "items")
}

func TestNestedItemErrors(t *testing.T) {
	errs := validate.Struct(orderInput{
		FranchiseID: 1,
		Name:        "pizza",
		Items:       []item{{MenuID: 0, Price: -1}},
	})

	assert.Equal(t, "menuId is required", errs["items[0].menuId"])
	assert.Equal(t, "price must be at least 0", errs["items[0].price"])
}

func TestLengthMessages(t *testing.T) {
	errs := validate.Struct(orderInput{FranchiseID: 1, Name: "p", Items: []item{{MenuID: 1}}})
	assert.Equal(t, "name must be at least 2 characters", errs["name"])

	errs = validate.Struct(orderInput{FranchiseID: 1, Name: "a very long pizza name indeed", Items: []item{{MenuID: 1}}})
	assert.Equal(t, "name may not be longer than 20 characters", errs["name"])
}

func TestCheck(t *testing.T) {
	assert.NoError(t, validate.Check(orderInput{
		FranchiseID: 1,
		Name:        "pizza",
		Items:       []item{{MenuID: 1}},
	}))

	err := validate.Check(orderInput{Name: "pizza", Items: []item{{MenuID: 1}}})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "Validation failed", apperr.PublicMessage(err))
	assert.Equal(t, map[string]string{"franchiseId": "franchiseId is required"}, apperr.FieldsOf(err)["errors"])
}
