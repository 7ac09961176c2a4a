package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrEmailTaken      = errors.New("email already taken")
	ErrUserNotFound    = errors.New("user not found")
	ErrRefreshMismatch = errors.New("stored refresh token mismatch")
)

type GormRepo struct {
	DB *gorm.DB
}
