package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	OrderReferencePrefix = "MALABRO-"
	referenceAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceLength      = 6
)

// GenerateOrderReference returns a human-readable order reference such as MALABRO-7QX2KD.
func GenerateOrderReference() (string, error) {
	buf := make([]byte, referenceLength)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = referenceAlphabet[n.Int64()]
	}
	return OrderReferencePrefix + string(buf), nil
}
