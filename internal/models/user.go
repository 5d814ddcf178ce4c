package models

import (
	"time"
)

type User struct {
	ID           int64      `gorm:"primarykey;autoIncrement:false" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	FullName     *string    `gorm:"type:varchar(255)" json:"full_name"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	IsAdmin      bool       `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`

	// Relations
	Tasks []Task `gorm:"foreignKey:UserID" json:"-"`
}
