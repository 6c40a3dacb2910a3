package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "regular password", password: "password123"},
		{name: "password with special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "unicode password", password: "пароль-секрет"},
		{name: "short password", password: "x"},
		{name: "too long password", password: strings.Repeat("a", 73), wantErr: ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := GetHash(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, gotHash)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.password, gotHash)

			cost, err := bcrypt.Cost([]byte(gotHash))
			require.NoError(t, err)
			assert.Equal(t, Cost, cost)

			assert.NoError(t, CompareHash(gotHash, tt.password))
		})
	}
}

func TestGetHash_IsSalted(t *testing.T) {
	first, err := GetHash("same_password")
	require.NoError(t, err)
	second, err := GetHash("same_password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCompareHash(t *testing.T) {
	correctHash, err := GetHash("correct_password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
	}{
		{name: "correct password", hash: correctHash, password: "correct_password"},
		{name: "wrong password", hash: correctHash, password: "wrong_password", wantErr: ErrMismatch},
		{name: "empty password", hash: correctHash, password: "", wantErr: ErrMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHash(tt.hash, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCompareHash_InvalidHash(t *testing.T) {
	err := CompareHash("not-a-bcrypt-hash", "password")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}
