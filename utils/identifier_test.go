package utils

import (
	"errors"
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2025, 9, 25, 18, 12, 0, 0, time.UTC)
}

// sequence returns an IntnFunc that replays values in order.
func sequence(values ...int) IntnFunc {
	i := 0
	return func(n int) int {
		v := values[i%len(values)] % n
		i++
		return v
	}
}

func TestGenerateUniqueRetriesOnCollision(t *testing.T) {
	existing := map[string]struct{}{"X-00": {}, "X-11": {}}
	got, err := GenerateUnique(sequence(0, 0, 1, 1, 2, 2), fixedNow, Digits, 2, "X-", existing, 10)
	if err != nil {
		t.Fatalf("GenerateUnique: %v", err)
	}
	if got != "X-22" {
		t.Errorf("got %q, want X-22", got)
	}
}

func TestGenerateUniqueNeverReturnsExisting(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	gen := &IdentifierGenerator{Intn: rng.IntN, Now: fixedNow, MaxAttempts: DefaultMaxAttempts}

	for _, n := range []int{1, 10, 1000, 10000} {
		existing := make(map[string]struct{}, n-1)
		for len(existing) < n-1 {
			id, err := gen.ApplicantID(nil)
			if err != nil {
				t.Fatalf("seeding: %v", err)
			}
			existing[id] = struct{}{}
		}

		for i := 0; i < 200; i++ {
			id, err := gen.ApplicantID(existing)
			if err != nil {
				t.Fatalf("n=%d: ApplicantID: %v", n, err)
			}
			if _, taken := existing[id]; taken {
				t.Fatalf("n=%d: generated existing id %q", n, id)
			}
		}
	}
}

func TestGenerateUniqueFallsBackToSaltedID(t *testing.T) {
	existing := map[string]struct{}{"P-A": {}}
	got, err := GenerateUnique(sequence(0), fixedNow, "A", 1, "P-", existing, 5)
	if err != nil {
		t.Fatalf("GenerateUnique: %v", err)
	}
	if !strings.HasPrefix(got, "P-") || got == "P-A" {
		t.Errorf("expected salted fallback, got %q", got)
	}
}

func TestGenerateUniqueReportsExhaustion(t *testing.T) {
	salted, _ := GenerateUnique(sequence(0), fixedNow, "A", 1, "P-", map[string]struct{}{"P-A": {}}, 1)
	existing := map[string]struct{}{"P-A": {}, salted: {}}

	_, err := GenerateUnique(sequence(0), fixedNow, "A", 1, "P-", existing, 3)
	if !errors.Is(err, ErrIdentifierExhausted) {
		t.Errorf("expected ErrIdentifierExhausted, got %v", err)
	}
}

func TestIdentifierFormats(t *testing.T) {
	gen := &IdentifierGenerator{Intn: rand.IntN, Now: fixedNow, MaxAttempts: 10}

	tests := []struct {
		name    string
		fn      func(map[string]struct{}) (string, error)
		pattern string
	}{
		{"applicant", gen.ApplicantID, `^MAT-INS\d{5}$`},
		{"temporary", gen.TemporaryID, `^TMP-[A-Z0-9]{8}$`},
		{"ticket", gen.Ticket, `^FOL-20250925-\d{4}$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.fn(nil)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if !regexp.MustCompile(tt.pattern).MatchString(id) {
				t.Errorf("%q does not match %s", id, tt.pattern)
			}
		})
	}
}

func TestIdentifierShapes(t *testing.T) {
	g := &IdentifierGenerator{Intn: rand.IntN, Now: fixedNow, MaxAttempts: 5}
	applicantID, err := g.ApplicantID(nil)
	if err != nil {
		t.Fatal(err)
	}
	temporaryID, err := g.TemporaryID(nil)
	if err != nil {
		t.Fatal(err)
	}
	salted, err := GenerateUnique(func(int) int { return 0 }, fixedNow, Digits, 5, ApplicantIDPrefix,
		map[string]struct{}{"MAT-INS00000": {}}, 3)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		id        string
		applicant bool
		temporary bool
	}{
		{applicantID, true, false},
		{salted, true, false},
		{temporaryID, false, true},
		{"MAT-INS04217", true, false},
		{"TMP-AB12CD34", false, true},
		{"MAT-INS0421", false, false},
		{"mat-ins04217", false, false},
		{"../../x", false, false},
		{"MAT-INS../x1", false, false},
		{"TMP-ab12cd34", false, false},
		{"TMP-AB12", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := IsApplicantID(tt.id); got != tt.applicant {
			t.Errorf("IsApplicantID(%q) = %v, want %v", tt.id, got, tt.applicant)
		}
		if got := IsTemporaryID(tt.id); got != tt.temporary {
			t.Errorf("IsTemporaryID(%q) = %v, want %v", tt.id, got, tt.temporary)
		}
	}
}
