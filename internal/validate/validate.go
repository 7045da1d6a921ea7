// Package validate holds the field checks run against a registration form
// before it goes anywhere near the network.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	cardPattern   = regexp.MustCompile(`^\d{16}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// ValidationError names the first form field that failed its check.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RegistrationForm carries the fields a new account signs up with.
type RegistrationForm struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	CardNumber string
	ExpiryDate string
	CVV        string
}

// Registration checks the form fields in a fixed order and stops at the
// first failure: email shape, phone, card number, expiry, verification code.
func Registration(f RegistrationForm) error {
	if err := Email(f.Email); err != nil {
		return err
	}
	if err := Phone(f.Phone); err != nil {
		return err
	}
	if err := CardNumber(f.CardNumber); err != nil {
		return err
	}
	if err := ExpiryDate(f.ExpiryDate); err != nil {
		return err
	}
	return CVV(f.CVV)
}

// Email requires the standard local@domain shape.
func Email(email string) error {
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}
	return nil
}

// Phone requires an E.164-like international number.
func Phone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return &ValidationError{Field: "phone", Message: "invalid phone number"}
	}
	return nil
}

// CardNumber requires exactly 16 digits once whitespace is stripped.
func CardNumber(card string) error {
	if !cardPattern.MatchString(strings.ReplaceAll(card, " ", "")) {
		return &ValidationError{Field: "card_number", Message: "card number must be 16 digits"}
	}
	return nil
}

// ExpiryDate requires MM/YY with month 01-12.
func ExpiryDate(expiry string) error {
	if !expiryPattern.MatchString(expiry) {
		return &ValidationError{Field: "expiry_date", Message: "expiry must be MM/YY"}
	}
	return nil
}

// CVV requires a 3 or 4 digit verification code.
func CVV(cvv string) error {
	if !cvvPattern.MatchString(cvv) {
		return &ValidationError{Field: "cvv", Message: "verification code must be 3 or 4 digits"}
	}
	return nil
}
