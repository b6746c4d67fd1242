package models

import "time"

// User represents a registered account.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(100)"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never the plaintext
	CreatedAt    time.Time `json:"created_at"`
}
