package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCountry is applied when a user is created without a country.
const DefaultCountry = "Bangladesh"

// phonePattern matches local mobile numbers: exactly 11 digits starting "01".
var phonePattern = regexp.MustCompile(`^01\d{9}$`)

// User represents a customer account with shipping details
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	FirstName    string    `json:"first_name" db:"first_name"`
	MiddleName   string    `json:"middle_name,omitempty" db:"middle_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	HouseNumber  string    `json:"house_number" db:"house_number"`
	RoadNumber   string    `json:"road_number" db:"road_number"`
	PostalCode   string    `json:"postal_code" db:"postal_code"`
	District     string    `json:"district" db:"district"`
	Country      string    `json:"country" db:"country"`
	Role         string    `json:"role" db:"role"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ValidPhoneNumber reports whether the given string is an acceptable
// phone number (11 digits, "01" prefix).
func ValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

// FullName joins first, middle and last name, skipping an absent middle name.
func (u *User) FullName() string {
	parts := []string{u.FirstName}
	if u.MiddleName != "" {
		parts = append(parts, u.MiddleName)
	}
	parts = append(parts, u.LastName)
	return strings.Join(parts, " ")
}

// ShortName returns the user's first name.
func (u *User) ShortName() string {
	return u.FirstName
}

// FullAddress formats the shipping address as a single line.
func (u *User) FullAddress() string {
	return fmt.Sprintf("House: %s, Road: %s, Postal Code: %s, %s, %s",
		u.HouseNumber, u.RoadNumber, u.PostalCode, u.District, u.Country)
}

func (u *User) String() string {
	return fmt.Sprintf("%s (%s)", u.FullName(), u.Email)
}
