package validators

import (
	"testing"

	"nestquest/internal/models"

	"github.com/stretchr/testify/assert"
)

func validPropertyInput() *models.PropertyInput {
	return &models.PropertyInput{
		Title:      "Sunny Apartment",
		Location:   "Lakeside, Pokhara",
		Image:      "https://example.com/photo.jpg",
		MinPrice:   100000,
		MaxPrice:   150000,
		AgentName:  "Asha Gurung",
		AgentEmail: "asha@example.com",
	}
}

func TestPropertyValidateCreate(t *testing.T) {
	v := NewPropertyValidator()
	assert.NoError(t, v.ValidateCreate(validPropertyInput()))
}

func TestPropertyValidateCreateRejectsInvertedPriceRange(t *testing.T) {
	v := NewPropertyValidator()

	input := validPropertyInput()
	input.MinPrice = 200000
	input.MaxPrice = 150000
	err := v.ValidateCreate(input)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "maximum price must be greater than minimum price")

	input = validPropertyInput()
	input.MinPrice = 150000
	input.MaxPrice = 150000
	assert.Error(t, v.ValidateCreate(input))
}

func TestPropertyValidateCreateFieldRules(t *testing.T) {
	v := NewPropertyValidator()

	tests := []struct {
		name   string
		mutate func(*models.PropertyInput)
	}{
		{"missing title", func(p *models.PropertyInput) { p.Title = "" }},
		{"missing location", func(p *models.PropertyInput) { p.Location = "" }},
		{"image not a url", func(p *models.PropertyInput) { p.Image = "not-a-url" }},
		{"zero min price", func(p *models.PropertyInput) { p.MinPrice = 0 }},
		{"bad agent email", func(p *models.PropertyInput) { p.AgentEmail = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validPropertyInput()
			tt.mutate(input)
			assert.Error(t, v.ValidateCreate(input))
		})
	}
}
