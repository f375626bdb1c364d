package models

import (
	"database/sql"
	"time"
)

// Account is the ACCOUNTS row.
type Account struct {
	ID           string       `db:"ID"`
	Username     string       `db:"USERNAME"`
	Email        string       `db:"EMAIL"`
	PasswordHash string       `db:"PASSWORD_HASH"`
	Role         string       `db:"ROLE"`
	CreatedAt    time.Time    `db:"CREATED_AT"`
	UpdatedAt    time.Time    `db:"UPDATED_AT"`
	DeletedAt    sql.NullTime `db:"DELETED_AT"`
}
