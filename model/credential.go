package model

import "time"

// Credential is the identity-side record. It is kept apart from the
// directory profile and is never rendered.
type Credential struct {
	UID          string    `gorm:"primaryKey;column:uid;size:64" db:"uid" json:"-"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:idx_credentials_email" db:"email" json:"-"`
	DisplayName  string    `gorm:"size:200" db:"display_name" json:"-"`
	PasswordHash string    `gorm:"size:255;not null" db:"password_hash" json:"-"`
	PasswordAlgo string    `gorm:"size:32" db:"password_algo" json:"-"`
	CreatedAt    time.Time `gorm:"not null;<-:create" db:"created_at" json:"-"`
}

func (Credential) TableName() string {
	return "credentials"
}
