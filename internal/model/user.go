package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UserID              string     `gorm:"column:user_id;size:8;uniqueIndex;not null"`
	Nickname            string     `gorm:"column:nickname;not null"`
	Email               string     `gorm:"column:email;unique;not null"`
	Password            string     `gorm:"column:password;not null"`
	Avatar              string     `gorm:"column:avatar;not null"`
	Type                string     `gorm:"column:type;default:normal;not null"`
	Status              string     `gorm:"column:status;default:active;not null"`
	IsEmailVerified     bool       `gorm:"column:is_email_verified;default:false;not null"`
	IsPhoneVerified     bool       `gorm:"column:is_phone_verified;default:false;not null"`
	FailedLoginAttempts int        `gorm:"column:failed_login_attempts;default:0;not null"`
	LastLoginIP         *string    `gorm:"column:last_login_ip"`
	LastLoginAt         *time.Time `gorm:"column:last_login_at"`
}
