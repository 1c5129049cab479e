package models

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	IsAdmin      bool
	CreatedAt    time.Time
}
