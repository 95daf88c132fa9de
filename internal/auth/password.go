package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the fixed adaptive work parameter for password hashing
const bcryptCost = 12

// HashPassword applies a salted, computationally expensive one-way hash
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPassword verifies a password against a stored hash. Any mismatch,
// including a malformed stored hash, reports false rather than an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
