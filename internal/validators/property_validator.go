package validators

import (
	"fmt"

	"nestquest/internal/models"

	"github.com/go-playground/validator/v10"
)

type propertyValidator struct {
	validate *validator.Validate
}

func NewPropertyValidator() PropertyValidator {
	return &propertyValidator{validate: validator.New()}
}

// ValidateCreate rejects an invalid listing form before any network call.
func (v *propertyValidator) ValidateCreate(input *models.PropertyInput) error {
	if err := v.validate.Struct(input); err != nil {
		return err
	}
	if input.MinPrice >= input.MaxPrice {
		return fmt.Errorf("maximum price must be greater than minimum price")
	}
	return nil
}
