// Package model holds the GORM persistence models. They never leave the infra layer.
package model

import "time"

// CredentialModel mirrors the 'users' table. Username comparison is case-sensitive.
type CredentialModel struct {
	Username     string `gorm:"type:varchar(255);primaryKey"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "users"
}
