package hash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyHash = errors.New("hash: empty result")

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if len(hashbytes) == 0 {
		return "", ErrEmptyHash
	}

	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
