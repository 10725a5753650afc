package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type Customer struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Phone          string    `json:"phone"`
	BillingAddress string    `json:"billingAddress"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Identity est l'identité portée par la session, passée explicitement aux services
type Identity struct {
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func (i Identity) IsZero() bool {
	return i.CustomerID == 0
}
