package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// TokenSource generates the random material for the verification and reset
// flows. It is an interface so tests can inject deterministic values.
type TokenSource interface {
	// VerificationCode returns a 6-digit decimal code, zero padded.
	VerificationCode() (string, error)

	// ResetToken returns a 40-character hex token (20 random bytes).
	ResetToken() (string, error)
}

type cryptoTokenSource struct{}

// NewTokenSource returns a TokenSource backed by crypto/rand.
func NewTokenSource() TokenSource {
	return cryptoTokenSource{}
}

func (cryptoTokenSource) VerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (cryptoTokenSource) ResetToken() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}
