package models

// Role classifies what an authenticated user may see and do.
type Role string

const (
	// RoleSuperAdmin may manage user accounts in addition to everything
	// an admin can do.
	RoleSuperAdmin Role = "super_admin"
	// RoleAdmin may manage articles, products and orders.
	RoleAdmin Role = "admin"
	// RoleCustomer is the default role for self-registered accounts.
	RoleCustomer Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleCustomer:
		return true
	}
	return false
}

// IsAdmin reports whether r carries admin privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Address is the postal address kept on a user profile.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// PaymentCard holds card details captured at registration for checkout
// convenience. Nothing here is ever charged against a real payment network.
type PaymentCard struct {
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"-"`
}

// User represents a registered account.
type User struct {
	BaseModel
	Name         string      `json:"name"`
	Email        string      `gorm:"uniqueIndex" json:"email"`
	PasswordHash string      `json:"-"`
	Role         Role        `gorm:"type:varchar(32)" json:"role"`
	Phone        string      `json:"phone"`
	Address      Address     `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Payment      PaymentCard `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Orders       []Order     `json:"orders,omitempty"`
}
