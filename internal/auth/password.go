package auth

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 10

// HashPassword returns a salted bcrypt hash of the plaintext. Each call salts
// independently, so hashing the same plaintext twice yields different outputs.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash, using the
// salt embedded in the hash.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
