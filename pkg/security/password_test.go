package security

import (
	"strings"
	"testing"
)

func TestGenerateTempPasswordLength(t *testing.T) {
	for _, n := range []int{4, 8, 32} {
		p, err := GenerateTempPassword(n)
		if err != nil {
			t.Fatal(err)
		}
		if len(p) != n {
			t.Fatalf("want length %d, got %d", n, len(p))
		}
	}

	if _, err := GenerateTempPassword(3); err == nil {
		t.Fatal("length below minimum accepted")
	}
}

func TestGenerateTempPasswordCoversAlphabets(t *testing.T) {
	for i := 0; i < 20; i++ {
		p, err := GenerateTempPassword(8)
		if err != nil {
			t.Fatal(err)
		}
		for _, alphabet := range []string{upper, lower, digits, special} {
			if !strings.ContainsAny(p, alphabet) {
				t.Fatalf("password %q misses alphabet %q", p, alphabet)
			}
		}
	}
}

func TestGenerateTempPasswordNoAmbiguousCharacters(t *testing.T) {
	const ambiguous = "0O1Il5SsBb8"

	for i := 0; i < 50; i++ {
		p, err := GenerateTempPassword(16)
		if err != nil {
			t.Fatal(err)
		}
		if strings.ContainsAny(p, ambiguous) {
			t.Fatalf("ambiguous character in %q", p)
		}
	}
}

func TestGenerateTempPasswordIsRandom(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		p, err := GenerateTempPassword(12)
		if err != nil {
			t.Fatal(err)
		}
		if seen[p] {
			t.Fatalf("duplicate password %q", p)
		}
		seen[p] = true
	}
}
