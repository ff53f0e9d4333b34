package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// ErrIdentifierExhausted is returned when no free identifier could be found,
// which only happens when the identifier space is nearly saturated.
var ErrIdentifierExhausted = errors.New("no free identifier available")

const (
	Digits             = "0123456789"
	UpperAlphanumeric  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	DefaultMaxAttempts = 10000

	ApplicantIDPrefix = "MAT-INS"
	TemporaryIDPrefix = "TMP-"
	TicketPrefix      = "FOL-"
)

// IntnFunc returns a uniformly distributed int in [0, n).
type IntnFunc func(n int) int

// GenerateUnique samples length characters from alphabet, prefixes them and
// retries until the result is not in existing. After maxAttempts samples it
// falls back to a clock-salted identifier; if even that collides the space
// is treated as exhausted.
func GenerateUnique(intn IntnFunc, now func() time.Time, alphabet string, length int, prefix string, existing map[string]struct{}, maxAttempts int) (string, error) {
	if alphabet == "" || length <= 0 {
		return "", fmt.Errorf("invalid identifier shape: alphabet %q, length %d", alphabet, length)
	}

	var b strings.Builder
	for attempt := 0; attempt < maxAttempts; attempt++ {
		b.Reset()
		b.WriteString(prefix)
		for i := 0; i < length; i++ {
			b.WriteByte(alphabet[intn(len(alphabet))])
		}

		candidate := b.String()
		if _, taken := existing[candidate]; !taken {
			return candidate, nil
		}
	}

	salted := prefix + strings.ToUpper(strconv.FormatInt(now().UnixNano(), 36))
	if _, taken := existing[salted]; !taken {
		return salted, nil
	}
	return "", fmt.Errorf("%w: prefix %q after %d attempts", ErrIdentifierExhausted, prefix, maxAttempts)
}

// IdentifierGenerator produces the identifiers used by the ledger.
type IdentifierGenerator struct {
	Intn        IntnFunc
	Now         func() time.Time
	MaxAttempts int
}

func NewIdentifierGenerator() *IdentifierGenerator {
	return &IdentifierGenerator{
		Intn:        cryptoIntn,
		Now:         time.Now,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// cryptoIntn draws uniformly from crypto/rand.
func cryptoIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return int(v.Int64())
}

func (g *IdentifierGenerator) Unique(alphabet string, length int, prefix string, existing map[string]struct{}) (string, error) {
	return GenerateUnique(g.Intn, g.Now, alphabet, length, prefix, existing, g.MaxAttempts)
}

// ApplicantID returns a new storage identifier such as MAT-INS04217.
func (g *IdentifierGenerator) ApplicantID(existing map[string]struct{}) (string, error) {
	return g.Unique(Digits, 5, ApplicantIDPrefix, existing)
}

// TemporaryID names documents uploaded before the applicant has an id.
func (g *IdentifierGenerator) TemporaryID(existing map[string]struct{}) (string, error) {
	return g.Unique(UpperAlphanumeric, 8, TemporaryIDPrefix, existing)
}

// Ticket returns the human-facing folio, e.g. FOL-20250925-4821, checked
// against the tickets already issued.
func (g *IdentifierGenerator) Ticket(existing map[string]struct{}) (string, error) {
	prefix := TicketPrefix + g.Now().Format("20060102") + "-"
	return g.Unique(Digits, 4, prefix, existing)
}

// maxSuffixLength covers the clock-salted fallback (13 base-36 digits).
const maxSuffixLength = 16

// IsApplicantID reports whether id has the shape ApplicantID produces,
// including the clock-salted fallback.
func IsApplicantID(id string) bool {
	return hasIdentifierShape(id, ApplicantIDPrefix, 5)
}

// IsTemporaryID reports whether id has the shape TemporaryID produces.
func IsTemporaryID(id string) bool {
	return hasIdentifierShape(id, TemporaryIDPrefix, 8)
}

func hasIdentifierShape(id, prefix string, minLength int) bool {
	suffix, found := strings.CutPrefix(id, prefix)
	if !found || len(suffix) < minLength || len(suffix) > maxSuffixLength {
		return false
	}
	for i := 0; i < len(suffix); i++ {
		if !strings.ContainsRune(UpperAlphanumeric, rune(suffix[i])) {
			return false
		}
	}
	return true
}
