package models

import "time"

// OfferStatus is the lifecycle state of a buyer offer.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
	OfferBought   OfferStatus = "bought"
)

// Offer is a backend-owned purchase offer on a listing.
type Offer struct {
	ID            string      `json:"_id"`
	PropertyID    string      `json:"propertyId"`
	PropertyTitle string      `json:"propertyTitle"`
	Location      string      `json:"location,omitempty"`
	AgentEmail    string      `json:"agentEmail"`
	BuyerEmail    string      `json:"buyerEmail"`
	BuyerName     string      `json:"buyerName,omitempty"`
	Amount        int64       `json:"offerAmount"`
	Status        OfferStatus `json:"status"`
	TransactionID string      `json:"transactionId,omitempty"`
	CreatedAt     time.Time   `json:"createdAt,omitempty"`
}

// OfferInput is the buyer-submitted offer form.
type OfferInput struct {
	PropertyID    string `json:"propertyId" validate:"required"`
	PropertyTitle string `json:"propertyTitle"`
	AgentEmail    string `json:"agentEmail" validate:"required,email"`
	BuyerEmail    string `json:"buyerEmail" validate:"required,email"`
	BuyerName     string `json:"buyerName"`
	Amount        int64  `json:"offerAmount" validate:"required,gt=0"`
}
