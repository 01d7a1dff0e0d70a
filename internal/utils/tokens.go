package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// NewSessionID returns a random hex identifier of nBytes entropy.
func NewSessionID(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32 // 256 бит по умолчанию
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RandomDigits returns n digits, each drawn independently and uniformly.
func RandomDigits(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("digits count must be positive, got %d", n)
	}
	ten := big.NewInt(10)
	out := make([]byte, n)
	for i := range out {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		out[i] = byte('0' + d.Int64())
	}
	return string(out), nil
}
