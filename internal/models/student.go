package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Student is a registered course participant. Admins are students with an
// elevated role rather than a separate entity.
type Student struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	FirstName  string    `gorm:"size:100" json:"firstName"`
	LastName   string    `gorm:"size:100" json:"lastName"`
	University string    `gorm:"size:255;index" json:"university"`
	Role       string    `gorm:"size:16;not null;default:student" json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (s *Student) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// SetPassword hashes and stores the given plain-text password.
func (s *Student) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.Password = string(hashed)
	return nil
}

func (s *Student) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s.Password), []byte(password)) == nil
}
