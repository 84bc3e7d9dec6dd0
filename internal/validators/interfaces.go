package validators

import "nestquest/internal/models"

type PropertyValidator interface {
	ValidateCreate(input *models.PropertyInput) error
}

type OfferValidator interface {
	ValidateCreate(input *models.OfferInput, property *models.Property) error
}

type ReviewValidator interface {
	ValidateCreate(input *models.ReviewInput) error
}
