package utils

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for hashes produced at startup.
const PasswordCost = 14

// HashPassword hashes a given password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with its hashed version.
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AdminCredentials is the single administrator login accepted by the API.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

// NewAdminCredentials prefers a pre-computed bcrypt hash. A plaintext
// password is only accepted as a fallback and is hashed immediately.
func NewAdminCredentials(username, passwordHash, password string) (AdminCredentials, error) {
	creds := AdminCredentials{Username: username, PasswordHash: passwordHash}
	if creds.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(creds.PasswordHash)); err != nil {
			return AdminCredentials{}, errors.New("ADMIN_PASSWORD_HASH is not a bcrypt hash")
		}
		return creds, nil
	}
	if password == "" {
		return creds, nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return AdminCredentials{}, err
	}
	creds.PasswordHash = hash
	return creds, nil
}

// Enabled reports whether an admin password has been configured at all.
func (a AdminCredentials) Enabled() bool {
	return a.Username != "" && a.PasswordHash != ""
}

// Match checks a login attempt. The password hash is always compared so a
// wrong username costs the same as a wrong password.
func (a AdminCredentials) Match(username, password string) bool {
	if !a.Enabled() {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	passOK := CheckPasswordHash(password, a.PasswordHash)
	return userOK && passOK
}
