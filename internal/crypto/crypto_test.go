package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	sealed, err := Seal([]byte("https://user:pw@bridge.example/simplefin"), "hunter2")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "bridge.example")

	plain, err := Open(sealed, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "https://user:pw@bridge.example/simplefin", string(plain))
}

func TestOpen_Failures(t *testing.T) {
	sealed, err := Seal([]byte("secret"), "right")
	require.NoError(t, err)
	tampered := "A" + sealed[1:]
	if sealed[0] == 'A' {
		tampered = "B" + sealed[1:]
	}

	tests := []struct {
		name       string
		encoded    string
		passphrase string
		wantErr    error
	}{
		{name: "wrong passphrase", encoded: sealed, passphrase: "wrong", wantErr: ErrSignature},
		{name: "tampered cyphertext", encoded: tampered, passphrase: "right", wantErr: ErrSignature},
		{name: "no separator", encoded: "abcdef", passphrase: "right"},
		{name: "empty passphrase", encoded: sealed, passphrase: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.encoded, tt.passphrase)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSeal_IsRandomized(t *testing.T) {
	a, err := Seal([]byte("same"), "key")
	require.NoError(t, err)
	b, err := Seal([]byte("same"), "key")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
