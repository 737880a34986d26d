package users

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Picture   string    `json:"picture,omitempty"`
	Provider  string    `json:"provider"`       // google, oidc
	Subject   string    `gorm:"index" json:"-"` // identity-provider subject
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
