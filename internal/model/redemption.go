package model

import "time"

// RedemptionStatus tracks the lifecycle of a point-redemption request.
type RedemptionStatus string

// Redemption status constants.
const (
	RedemptionPending  RedemptionStatus = "pending"
	RedemptionApproved RedemptionStatus = "approved"
	RedemptionRejected RedemptionStatus = "rejected"
)

// RedemptionRequest records a user's request to convert reward points. The
// amount is debited from the balance when the request is created; this is the
// only operation that may decrease a balance.
type RedemptionRequest struct {
	CreatedAt    time.Time        `json:"createdAt"`
	Owner        string           `json:"owner"`
	CryptoType   string           `json:"cryptoType"`
	Status       RedemptionStatus `json:"status"`
	ID           int64            `json:"id"`
	Amount       int64            `json:"amount"`
	ExchangeRate float64          `json:"exchangeRate"`
}
