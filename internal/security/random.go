package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const maxAlphabetSize = 256

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString draws length characters uniformly from alphabet using
// crypto/rand. Bytes above the largest multiple of len(alphabet) are
// rejected so no character is favoured.
func RandomString(length int, alphabet string) (string, error) {
	return randomString(rand.Reader, length, alphabet)
}

func randomString(source io.Reader, length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", errNegativeLength
	case length == 0:
		return "", nil
	case alphabet == "":
		return "", errEmptyAlphabet
	case len(alphabet) > maxAlphabetSize:
		return "", fmt.Errorf("alphabet must have at most %d bytes", maxAlphabetSize)
	}

	size := len(alphabet)
	ceiling := maxAlphabetSize - maxAlphabetSize%size
	out := make([]byte, 0, length)
	buffer := make([]byte, length+length/2+1)
	for len(out) < length {
		if _, err := io.ReadFull(source, buffer); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, value := range buffer {
			if int(value) >= ceiling {
				continue
			}
			out = append(out, alphabet[int(value)%size])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
