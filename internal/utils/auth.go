package utils

import (
  "fmt"
  "net/mail"
  "strings"
  "golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

func HashPassword(plain string) (string, error) {
  hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
  if err != nil {
    return "", fmt.Errorf("Failed to hash password: %w", err)
  }
  return string(hashed), nil
}

func CheckPassword(hashed, plain string) error {
  return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

func ValidateEmail(email string) error {
  email = strings.TrimSpace(email)
  if email == "" {
    return fmt.Errorf("email is required")
  }
  if _, err := mail.ParseAddress(email); err != nil {
    return fmt.Errorf("invalid email address")
  }
  return nil
}

func ValidatePassword(password string) error {
  if len(password) < minPasswordLen {
    return fmt.Errorf("password must be at least %d characters", minPasswordLen)
  }
  return nil
}

func NormalizeEmail(email string) string {
  return strings.ToLower(strings.TrimSpace(email))
}
