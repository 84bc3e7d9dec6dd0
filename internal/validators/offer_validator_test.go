package validators

import (
	"testing"

	"nestquest/internal/models"

	"github.com/stretchr/testify/assert"
)

func validOfferInput() *models.OfferInput {
	return &models.OfferInput{
		PropertyID: "p1",
		AgentEmail: "agent@example.com",
		BuyerEmail: "buyer@example.com",
		Amount:     120000,
	}
}

func listedProperty() *models.Property {
	return &models.Property{ID: "p1", MinPrice: 100000, MaxPrice: 150000}
}

func TestOfferValidateCreate(t *testing.T) {
	v := NewOfferValidator()
	assert.NoError(t, v.ValidateCreate(validOfferInput(), listedProperty()))
}

func TestOfferValidateCreateAmountOutsidePriceRange(t *testing.T) {
	v := NewOfferValidator()

	low := validOfferInput()
	low.Amount = 99999
	assert.Error(t, v.ValidateCreate(low, listedProperty()))

	high := validOfferInput()
	high.Amount = 150001
	assert.Error(t, v.ValidateCreate(high, listedProperty()))

	// Range bounds are inclusive.
	edge := validOfferInput()
	edge.Amount = 100000
	assert.NoError(t, v.ValidateCreate(edge, listedProperty()))
	edge.Amount = 150000
	assert.NoError(t, v.ValidateCreate(edge, listedProperty()))
}

func TestOfferValidateCreateFieldRules(t *testing.T) {
	v := NewOfferValidator()

	missing := validOfferInput()
	missing.PropertyID = ""
	assert.Error(t, v.ValidateCreate(missing, listedProperty()))

	badEmail := validOfferInput()
	badEmail.BuyerEmail = "not-an-email"
	assert.Error(t, v.ValidateCreate(badEmail, listedProperty()))

	zero := validOfferInput()
	zero.Amount = 0
	assert.Error(t, v.ValidateCreate(zero, listedProperty()))
}

func TestReviewValidateCreate(t *testing.T) {
	v := NewReviewValidator()

	valid := &models.ReviewInput{
		PropertyID:    "p1",
		ReviewerEmail: "buyer@example.com",
		Rating:        4,
		Comment:       "Great location",
	}
	assert.NoError(t, v.ValidateCreate(valid))

	outOfRange := *valid
	outOfRange.Rating = 6
	assert.Error(t, v.ValidateCreate(&outOfRange))

	empty := *valid
	empty.Comment = ""
	assert.Error(t, v.ValidateCreate(&empty))
}
