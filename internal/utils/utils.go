package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// savingsAccountPrefix is the branch/product prefix for newly originated
// savings accounts.
const savingsAccountPrefix = "506"

var savingsAccountPattern = regexp.MustCompile(`^\d{3}-\d{6}-\d{5}$`)

// GenerateSavingsAccountNumber produces a "506-NNNNNN-NNNNN" account number.
// Uniqueness is the caller's problem; the command service retries against the
// store before giving up.
func GenerateSavingsAccountNumber() string {
	middle, _ := rand.Int(rand.Reader, big.NewInt(1000000))
	suffix, _ := rand.Int(rand.Reader, big.NewInt(100000))
	return fmt.Sprintf("%s-%06d-%05d", savingsAccountPrefix, middle.Int64(), suffix.Int64())
}

// ValidateSavingsAccountNumber checks the dash-separated 3-6-5 digit format.
func ValidateSavingsAccountNumber(accountNumber string) bool {
	return savingsAccountPattern.MatchString(accountNumber)
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
