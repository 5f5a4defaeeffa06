package models

import "time"

type UserAccount struct {
	Username     string    `json:"username" db:"username"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	JoinDate     time.Time `json:"join_date" db:"join_date"`
}
