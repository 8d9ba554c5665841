// Package password wraps the credential hashing used for local accounts.
package password

import "golang.org/x/crypto/bcrypt"

// Hash returns the bcrypt hash stored for a local account password.
func Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify checks whether a password matches the stored hash.
func Verify(password, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}
