package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account able to log in and own birthday records.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"size:20;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:60;not null"`
	CreatedAt    time.Time
}

// BeforeCreate assigns a random identifier when none was set.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Birthday is a person's birthdate as entered by its owner.
// Only the raw YYYY-MM-DD value is stored; ages and countdowns are derived at read time.
type Birthday struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"size:36;not null;uniqueIndex:idx_birthdays_owner_name,priority:1"`
	Name      string `gorm:"size:200;not null;uniqueIndex:idx_birthdays_owner_name,priority:2"`
	Birthdate string `gorm:"size:10;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a random identifier when none was set.
func (b *Birthday) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
