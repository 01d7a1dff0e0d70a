package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) bool
}

type authService struct {
	cost int
}

func NewAuthService() AuthService {
	return &authService{cost: bcrypt.DefaultCost}
}

// NewAuthServiceWithCost is used by tests to keep bcrypt cheap.
func NewAuthServiceWithCost(cost int) AuthService {
	return &authService{cost: cost}
}

func (s *authService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate: %w", err)
	}
	return string(b), nil
}

func (s *authService) CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
