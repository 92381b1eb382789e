package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabets skip visually ambiguous characters (0/O, 1/l/I and friends)
// since temporary passwords get read back to users over support channels.
const (
	upper   = "ACDEFGHJKMPQRTWXYZ"
	lower   = "acdefghjkpqrtwxyz"
	digits  = "23479"
	special = "!@#%^&*_+-={}.,<>?"
)

func randomChar(chars string) (byte, error) {
	if len(chars) == 0 {
		return 0, fmt.Errorf("source string is empty")
	}

	index, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
	if err != nil {
		return 0, err
	}

	return chars[index.Int64()], nil
}

func shuffle(data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		data[i], data[j.Int64()] = data[j.Int64()], data[i]
	}
	return nil
}

// GenerateTempPassword produces a password of the given length containing at
// least one character from each alphabet, in random order.
func GenerateTempPassword(length int) (string, error) {
	if length < 4 {
		return "", fmt.Errorf("length has to be at least 4")
	}

	alphabets := []string{upper, lower, digits, special}
	all := upper + lower + digits + special

	result := make([]byte, length)
	for i, a := range alphabets {
		c, err := randomChar(a)
		if err != nil {
			return "", err
		}
		result[i] = c
	}
	for i := len(alphabets); i < length; i++ {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		result[i] = c
	}

	if err := shuffle(result); err != nil {
		return "", err
	}

	return string(result), nil
}
