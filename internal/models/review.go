package models

import "time"

// Review is a backend-owned property review.
type Review struct {
	ID            string    `json:"_id"`
	PropertyID    string    `json:"propertyId"`
	PropertyTitle string    `json:"propertyTitle,omitempty"`
	AgentName     string    `json:"agentName,omitempty"`
	ReviewerEmail string    `json:"reviewerEmail"`
	ReviewerName  string    `json:"reviewerName,omitempty"`
	ReviewerImage string    `json:"reviewerImage,omitempty"`
	Rating        int       `json:"rating,omitempty"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// ReviewInput is the user-submitted review form.
type ReviewInput struct {
	PropertyID    string `json:"propertyId" validate:"required"`
	PropertyTitle string `json:"propertyTitle"`
	AgentName     string `json:"agentName"`
	ReviewerEmail string `json:"reviewerEmail" validate:"required,email"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerImage string `json:"reviewerImage"`
	Rating        int    `json:"rating" validate:"gte=1,lte=5"`
	Comment       string `json:"comment" validate:"required"`
}
