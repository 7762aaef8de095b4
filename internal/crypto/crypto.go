// Package crypto seals small secrets, such as cached bridge credentials, at rest.
package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gtank/cryptopasta"
)

var ErrSignature = errors.New("signature validation failed")

// Seal encrypts plaintext with a key derived from passphrase and appends an
// HMAC of the cyphertext. The result is "<cyphertext>.<signature>", both
// base64 url encoded.
func Seal(plaintext []byte, passphrase string) (string, error) {
	key, sig, err := deriveKeys(passphrase)
	if err != nil {
		return "", err
	}

	cyphertext, err := cryptopasta.Encrypt(plaintext, key)
	if err != nil {
		return "", fmt.Errorf("could not encrypt: %w", err)
	}
	signature := cryptopasta.GenerateHMAC(cyphertext, sig)

	return base64.RawURLEncoding.EncodeToString(cyphertext) + "." +
		base64.RawURLEncoding.EncodeToString(signature), nil
}

// Open is the inverse of Seal.
func Open(encoded, passphrase string) ([]byte, error) {
	key, sig, err := deriveKeys(passphrase)
	if err != nil {
		return nil, err
	}

	bits := strings.SplitN(strings.TrimSpace(encoded), ".", 2)
	if len(bits) != 2 {
		return nil, fmt.Errorf("decryption failed, encoded string invalid")
	}
	cyphertext, err := base64.RawURLEncoding.DecodeString(bits[0])
	if err != nil {
		return nil, fmt.Errorf("could not decode cyphertext: %w", err)
	}
	signature, err := base64.RawURLEncoding.DecodeString(bits[1])
	if err != nil {
		return nil, fmt.Errorf("could not decode signature: %w", err)
	}

	if !cryptopasta.CheckHMAC(cyphertext, signature, sig) {
		return nil, ErrSignature
	}
	return cryptopasta.Decrypt(cyphertext, key)
}

// deriveKeys turns a passphrase of any length into separate encryption and
// signing keys.
func deriveKeys(passphrase string) (key, sig *[32]byte, err error) {
	if passphrase == "" {
		return nil, nil, fmt.Errorf("empty passphrase")
	}
	return toKey(cryptopasta.Hash("reconciler-encrypt", []byte(passphrase))),
		toKey(cryptopasta.Hash("reconciler-sign", []byte(passphrase))), nil
}

func toKey(b []byte) *[32]byte {
	data := &[32]byte{}
	copy(data[:], b)
	return data
}
