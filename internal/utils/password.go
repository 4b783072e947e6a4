package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashRounds is the bcrypt cost used for new hashes.
const HashRounds = 10

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), HashRounds)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
