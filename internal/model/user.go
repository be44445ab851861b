package model

import "time"

type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Name                string     `gorm:"size:128;not null" json:"name"`
	Email               string     `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash        string     `gorm:"size:255;not null" json:"-"`
	IsVerified          bool       `gorm:"not null;default:false" json:"is_verified"`
	OTP                 string     `gorm:"size:8" json:"-"`
	OTPExpiry           *time.Time `json:"-"`
	ResetPasswordToken  string     `gorm:"size:128;index" json:"-"`
	ResetPasswordExpiry *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
