package domain

import "time"

// User is an application account, optionally linked to a provider customer.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CustomerID   string    `json:"customer_id,omitempty" gorm:"index"` // provider customer reference
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
