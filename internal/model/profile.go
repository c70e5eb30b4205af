package model

import "time"

// UserProfile is the display identity for a principal. Identity establishment
// itself happens outside this engine; the principal string is opaque here.
type UserProfile struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Principal string    `json:"principal"`
	Name      string    `json:"name"`
}
