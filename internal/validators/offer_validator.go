package validators

import (
	"fmt"

	"nestquest/internal/models"

	"github.com/go-playground/validator/v10"
)

type offerValidator struct {
	validate *validator.Validate
}

func NewOfferValidator() OfferValidator {
	return &offerValidator{validate: validator.New()}
}

// ValidateCreate checks the offer form and keeps the amount inside the
// listing's advertised price range.
func (v *offerValidator) ValidateCreate(input *models.OfferInput, property *models.Property) error {
	if err := v.validate.Struct(input); err != nil {
		return err
	}
	if property != nil && property.MinPrice > 0 && property.MaxPrice > 0 {
		if input.Amount < property.MinPrice || input.Amount > property.MaxPrice {
			return fmt.Errorf("offer amount must be between %d and %d", property.MinPrice, property.MaxPrice)
		}
	}
	return nil
}

type reviewValidator struct {
	validate *validator.Validate
}

func NewReviewValidator() ReviewValidator {
	return &reviewValidator{validate: validator.New()}
}

func (v *reviewValidator) ValidateCreate(input *models.ReviewInput) error {
	return v.validate.Struct(input)
}
