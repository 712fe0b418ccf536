package passes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRToken(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	token := NewQRToken(1042, 12345678901, "Ayse", "Demir", "10.0.0.5", now)

	require.NotEmpty(t, token.Token)
	assert.Equal(t, 1042, token.EmployeeNumber)
	assert.Equal(t, int64(12345678901), token.NationalID)
	assert.Equal(t, now, token.CreatedAt)
	assert.Equal(t, now.Add(TokenTTL), token.ExpiresAt)
	assert.False(t, token.UsedForCheckIn)
	assert.False(t, token.UsedForCheckOut)

	// Token strings must be unique per issuance
	other := NewQRToken(1042, 12345678901, "Ayse", "Demir", "10.0.0.5", now)
	assert.NotEqual(t, token.Token, other.Token)
}

func TestQRToken_IsPresentable(t *testing.T) {
	issued := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		at              time.Time
		usedForCheckIn  bool
		usedForCheckOut bool
		want            bool
	}{
		{"fresh token", issued.Add(time.Minute), false, false, true},
		{"used for check-in only", issued.Add(8 * time.Hour), true, false, true},
		{"used for check-out only", issued.Add(8 * time.Hour), false, true, true},
		{"fully consumed before expiry", issued.Add(8 * time.Hour), true, true, false},
		{"expired", issued.Add(TokenTTL), false, false, false},
		{"just before expiry", issued.Add(TokenTTL - time.Second), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := NewQRToken(1042, 12345678901, "Ayse", "Demir", "", issued)
			token.UsedForCheckIn = tt.usedForCheckIn
			token.UsedForCheckOut = tt.usedForCheckOut

			assert.Equal(t, tt.want, token.IsPresentable(tt.at))
		})
	}
}

func TestQRToken_IssuedSameDay(t *testing.T) {
	issued := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	token := NewQRToken(1042, 12345678901, "Ayse", "Demir", "", issued)

	assert.True(t, token.IssuedSameDay(issued.Add(20*time.Minute)))
	assert.False(t, token.IssuedSameDay(issued.Add(time.Hour))) // crossed midnight
	assert.False(t, token.IssuedSameDay(issued.AddDate(0, 0, 1)))
}

func TestQRToken_FullyConsumed(t *testing.T) {
	token := NewQRToken(1042, 12345678901, "Ayse", "Demir", "", time.Now())

	assert.False(t, token.FullyConsumed())
	token.UsedForCheckIn = true
	assert.False(t, token.FullyConsumed())
	token.UsedForCheckOut = true
	assert.True(t, token.FullyConsumed())
}
