// Package storefront implements the client-side state of the shop: the
// session store, the cart store, the route guard and the authenticated API
// client. State is held in memory and mirrored to a kvstore.Store on every
// mutation, so a fresh process picks up where the last one left off.
package storefront

import (
	"github.com/google/uuid"

	"github.com/example/okeetropics/internal/models"
)

// Identity is the authenticated principal held by the session store.
type Identity struct {
	ID      uuid.UUID          `json:"id"`
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	Role    models.Role        `json:"role"`
	Phone   string             `json:"phone"`
	Address models.Address     `json:"address"`
	Payment models.PaymentCard `json:"payment"`
}

// Registration carries everything a new account signs up with.
type Registration struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	Address    models.Address
	CardNumber string
	CardHolder string
	ExpiryDate string
	CVV        string
}
