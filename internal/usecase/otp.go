package usecase

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	otpMin  = 100000
	otpSpan = 900000
)

// generateOTP returns a 6-digit code drawn uniformly from
// [100000, 999999] and its expiry. The code comes from a cryptographically
// strong source so it cannot be derived from request-visible data.
func generateOTP(expiresIn time.Duration) (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", time.Time{}, err
	}

	code := strconv.FormatInt(n.Int64()+otpMin, 10)

	return code, time.Now().Add(expiresIn), nil
}
