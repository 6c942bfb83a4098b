package helpers

import (
	"crypto/rand"
	"math/big"
)

const alphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// EmptyOrOnlySpaces reports whether word is empty or made only of ASCII
// spaces. Tabs and newlines are not treated as blank.
func EmptyOrOnlySpaces(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] != ' ' {
			return false
		}
	}
	return true
}

// RandomString returns length characters drawn uniformly from [0-9A-Za-z].
func RandomString(length int) string {
	if length <= 0 {
		return ""
	}

	alphabetSize := big.NewInt(int64(len(alphanumeric)))
	result := make([]byte, length)

	for i := range result {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken.
			panic(err)
		}
		result[i] = alphanumeric[n.Int64()]
	}

	return string(result)
}
