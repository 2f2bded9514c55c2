package usecase

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateOTP_CodeShape(t *testing.T) {
	for range 200 {
		code, _, err := generateOTP(10 * time.Minute)
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}

func TestGenerateOTP_Expiry(t *testing.T) {
	before := time.Now()
	_, expiresAt, err := generateOTP(10 * time.Minute)
	require.NoError(t, err)

	require.True(t, expiresAt.After(before.Add(9*time.Minute)))
	require.True(t, expiresAt.Before(before.Add(11*time.Minute)))
}
