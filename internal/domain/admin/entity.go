package admin

import "time"

type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
