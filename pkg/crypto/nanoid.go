package crypto

import (
	"crypto/rand"
	"errors"
	"math"
	"unicode/utf8"
)

const (
	defaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	defaultSize     = 22 // 132 bits with the default alphabet
	maxAlphabetSize = 255
	minAlphabetSize = 8
)

var (
	ErrAlphabetTooLong     = errors.New("alphabet must contain no more than 255 characters")
	ErrAlphabetTooShort    = errors.New("alphabet must contain at least 8 characters")
	ErrAlphabetInvalidUTF8 = errors.New("alphabet must contain valid UTF-8")
	ErrAlphabetNotASCII    = errors.New("alphabet must contain only ASCII characters")
)

// NanoIDGenerator produces URL-safe random identifiers of a fixed size.
// Session IDs are generated this way.
type NanoIDGenerator struct {
	alphabet string
	size     int
	mask     byte
	step     int
}

// NewNanoID validates alphabet and precomputes the rejection-sampling mask.
// An empty alphabet or a non-positive size selects the default.
func NewNanoID(alphabet string, size int) (*NanoIDGenerator, error) {
	if alphabet == "" {
		alphabet = defaultAlphabet
	}
	if size <= 0 {
		size = defaultSize
	}

	if !utf8.ValidString(alphabet) {
		return nil, ErrAlphabetInvalidUTF8
	}
	// Generate indexes by byte.
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] > 127 {
			return nil, ErrAlphabetNotASCII
		}
	}
	if len(alphabet) > maxAlphabetSize {
		return nil, ErrAlphabetTooLong
	}
	if len(alphabet) < minAlphabetSize {
		return nil, ErrAlphabetTooShort
	}

	mask := maskFor(len(alphabet))
	return &NanoIDGenerator{
		alphabet: alphabet,
		size:     size,
		mask:     mask,
		step:     int(math.Ceil(1.6 * float64(int(mask)*size) / float64(len(alphabet)))),
	}, nil
}

// DefaultNanoID is NewNanoID("", 0), which cannot fail.
func DefaultNanoID() *NanoIDGenerator {
	g, _ := NewNanoID("", 0)
	return g
}

// maskFor returns the smallest 2^n-1 strictly above alphabetLen-1, n >= 2.
func maskFor(alphabetLen int) byte {
	for bits := 2; bits <= 8; bits++ {
		mask := (1 << bits) - 1
		if mask > alphabetLen-1 {
			return byte(mask)
		}
	}
	return 0xFF
}

func (n *NanoIDGenerator) Size() int { return n.size }

func (n *NanoIDGenerator) Generate() (string, error) {
	id := make([]byte, 0, n.size)
	buf := make([]byte, n.step)

	for len(id) < n.size {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			idx := int(b & n.mask)
			if idx >= len(n.alphabet) {
				continue
			}
			id = append(id, n.alphabet[idx])
			if len(id) == n.size {
				break
			}
		}
	}

	return string(id), nil
}
