package model

import "time"

type User struct {
	ID                   string     `db:"id" json:"userId"`
	Email                string     `db:"email" json:"email"`
	PasswordHash         string     `db:"password_hash" json:"-"`
	Name                 *string    `db:"name" json:"name,omitempty"`
	PasswordResetHash    *string    `db:"password_reset_hash" json:"-"`
	PasswordResetExpires *time.Time `db:"password_reset_expires" json:"-"`
	CreatedAt            time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updatedAt"`
}

type CreateUserParams struct {
	ID           string
	Email        string
	PasswordHash string
	Name         *string
}
