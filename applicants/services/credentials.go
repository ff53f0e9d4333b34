package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	secretAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	secretLength   = 12
)

// IssueSecret returns a random one-time credential and its bcrypt hash. Only
// the hash is stored; the plain value is handed back once.
func IssueSecret(cost int) (plain, hash string, err error) {
	buf := make([]byte, secretLength)
	limit := big.NewInt(int64(len(secretAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", "", fmt.Errorf("failed to generate secret: %w", err)
		}
		buf[i] = secretAlphabet[n.Int64()]
	}

	hashed, err := bcrypt.GenerateFromPassword(buf, cost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(buf), string(hashed), nil
}

func CheckSecret(plain, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	return err == nil
}
