// Package cryptoutils provides the key material around the machine:
// passphrase and salt generation, scrypt-based derivation of machine
// settings, random key sheets and message keys.
package cryptoutils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/vilshansen/enigmaforge-go/constants"
	"github.com/vilshansen/enigmaforge-go/enigma"
	"golang.org/x/crypto/scrypt"
)

// intn returns a value in [0,n).
type intn func(n int) (int, error)

func secureIntn(n int) (int, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("error generating secure, random index: %w", err)
	}
	return int(idx.Int64()), nil
}

// byteIntn draws values from a fixed byte block. Bytes at or above the
// largest multiple of n are skipped, so every value in [0,n) is equally
// likely.
func byteIntn(block []byte) intn {
	next := 0
	return func(n int) (int, error) {
		if n <= 0 || n > 256 {
			return 0, fmt.Errorf("draw range %d outside [1,256]", n)
		}
		limit := 256 - 256%n
		for next < len(block) {
			b := int(block[next])
			next++
			if b < limit {
				return b % n, nil
			}
		}
		return 0, fmt.Errorf("derived key block exhausted after %d bytes", next)
	}
}

// GeneratePassphrase generates a cryptographically secure, random passphrase
// of the specified length from the predefined character pool.
func GeneratePassphrase(length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("passphrase length must be positive, got %d", length)
	}
	out := make([]byte, length)
	for i := range out {
		idx, err := secureIntn(len(constants.CharacterPool))
		if err != nil {
			return nil, err
		}
		out[i] = constants.CharacterPool[idx]
	}
	return out, nil
}

// GenerateSalt generates a cryptographically secure, random salt
// with the length defined by constants.SaltLength.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, constants.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveSettings stretches passphrase and salt with scrypt and turns the
// result into a complete machine configuration. The same inputs always
// yield the same configuration.
func DeriveSettings(passphrase, salt []byte) (enigma.Config, error) {
	if len(passphrase) == 0 {
		return enigma.Config{}, fmt.Errorf("passphrase cannot be empty")
	}
	if len(salt) != constants.SaltLength {
		return enigma.Config{}, fmt.Errorf("invalid salt length %d, want %d", len(salt), constants.SaltLength)
	}

	block, err := scrypt.Key(passphrase, salt, constants.ScryptN, constants.ScryptR, constants.ScryptP, constants.DerivedKeySize)
	if err != nil {
		return enigma.Config{}, fmt.Errorf("scrypt derivation failed: %w", err)
	}
	defer ZeroBytes(block)

	return buildSheet(byteIntn(block))
}

// GenerateSettings returns a random key sheet: a rotor order, ring and
// start letters and constants.PlugboardPairs plugboard pairs.
func GenerateSettings() (enigma.Config, error) {
	return buildSheet(secureIntn)
}

// GenerateMessageKey returns three random letters for the rotor windows.
func GenerateMessageKey() (string, error) {
	return randomLetters(secureIntn, constants.MessageKeyLength)
}

func buildSheet(next intn) (enigma.Config, error) {
	cfg := enigma.Config{Reflector: enigma.DefaultReflector}

	order, err := shuffle(next, len(enigma.Rotors))
	if err != nil {
		return cfg, err
	}
	rings, err := randomLetters(next, enigma.NumSlots)
	if err != nil {
		return cfg, err
	}
	starts, err := randomLetters(next, enigma.NumSlots)
	if err != nil {
		return cfg, err
	}
	for slot := range cfg.Rotors {
		cfg.Rotors[slot] = enigma.RotorSetting{
			Rotor: order[slot%len(order)],
			Ring:  rings[slot],
			Start: starts[slot],
		}
	}

	letters, err := shuffle(next, enigma.AlphabetSize)
	if err != nil {
		return cfg, err
	}
	pairs := make([]string, 0, constants.PlugboardPairs)
	for i := 0; i < constants.PlugboardPairs; i++ {
		pairs = append(pairs, string([]byte{byte('A' + letters[2*i]), byte('A' + letters[2*i+1])}))
	}
	cfg.Plugboard = strings.Join(pairs, " ")
	return cfg, nil
}

// shuffle returns a Fisher-Yates permutation of [0,n).
func shuffle(next intn, n int) ([]int, error) {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j, err := next(i + 1)
		if err != nil {
			return nil, err
		}
		p[i], p[j] = p[j], p[i]
	}
	return p, nil
}

func randomLetters(next intn, n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		v, err := next(enigma.AlphabetSize)
		if err != nil {
			return "", err
		}
		b[i] = byte('A' + v)
	}
	return string(b), nil
}

// ZeroBytes overwrites the given byte slice with zeros.
// This is used to wipe passphrases and derived key blocks from memory.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
