package types

import "time"

// OfferStatus is the lifecycle state of a transfer offer
type OfferStatus string

// Offer states. Only pending transitions; the others are terminal.
const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
	OfferCountered OfferStatus = "countered"
)

// OfferResponse is the seller's answer to a pending offer
type OfferResponse string

// Offer responses
const (
	ResponseAccept  OfferResponse = "accept"
	ResponseReject  OfferResponse = "reject"
	ResponseCounter OfferResponse = "counter"
)

// TransferOffer is a bid by BuyerTeamID for a player of SellerTeamID
type TransferOffer struct {
	ID            string      `json:"id"`
	PlayerID      string      `json:"player_id"`
	SellerTeamID  string      `json:"seller_team_id"`
	BuyerTeamID   string      `json:"buyer_team_id"`
	Amount        int64       `json:"amount"`
	Status        OfferStatus `json:"status"`
	CounterAmount int64       `json:"counter_amount,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	ClosedAt      *time.Time  `json:"closed_at,omitempty"`
}

// Pending reports whether the offer still awaits a response
func (o *TransferOffer) Pending() bool {
	return o.Status == OfferPending
}
