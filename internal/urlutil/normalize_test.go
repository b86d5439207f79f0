package urlutil

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize_Canonical(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare host", "https://example.com", "https://example.com"},
		{"trailing slash", "https://example.com/", "https://example.com"},
		{"trailing slash on path", "https://example.com/blog/", "https://example.com/blog"},
		{"many trailing slashes", "https://example.com/blog///", "https://example.com/blog"},
		{"query dropped", "https://example.com/search?q=go", "https://example.com/search"},
		{"fragment dropped", "https://example.com/docs#intro", "https://example.com/docs"},
		{"upper case host", "https://EXAMPLE.com/Path", "https://example.com/Path"},
		{"default https port", "https://example.com:443/a", "https://example.com/a"},
		{"default http port", "http://example.com:80/a", "http://example.com/a"},
		{"custom port kept", "https://example.com:8443/a", "https://example.com:8443/a"},
		{"surrounding whitespace", "  https://example.com  ", "https://example.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"https://example.com/blog/",
		"HTTP://Example.COM:80/a/b/?x=1#frag",
		"https://sub.example.com:9000/path",
	}

	for _, in := range inputs {
		first, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", in, err)
		}
		second, err := Normalize(first)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", first, err)
		}
		if first != second {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, first, second)
		}
	}
}

func TestNormalize_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", ErrEmptyURL},
		{"whitespace only", "   \t", ErrEmptyURL},
		{"no scheme", "example.com", ErrInvalidURL},
		{"unsupported scheme", "ftp://example.com", ErrInvalidURL},
		{"no host", "https://", ErrInvalidURL},
		{"no dot in host", "https://localhost", ErrInvalidURL},
		{"host with space", "https://exa mple.com", ErrInvalidURL},
		{"trailing dot host", "https://example.com.", ErrInvalidURL},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Normalize(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("Normalize(%q) error = %v, want %v", tc.in, err, tc.want)
			}
		})
	}
}

func TestNormalize_LengthLimit(t *testing.T) {
	prefix := "https://example.com/"

	ok := prefix + strings.Repeat("a", MaxCanonicalLen-len(prefix))
	got, err := Normalize(ok)
	if err != nil {
		t.Fatalf("expected %d-char canonical to pass, got %v", MaxCanonicalLen, err)
	}
	if len(got) != MaxCanonicalLen {
		t.Fatalf("canonical length = %d, want %d", len(got), MaxCanonicalLen)
	}

	tooLong := prefix + strings.Repeat("a", MaxCanonicalLen-len(prefix)+1)
	if _, err := Normalize(tooLong); !errors.Is(err, ErrURLTooLong) {
		t.Fatalf("expected ErrURLTooLong for %d-char canonical, got %v", MaxCanonicalLen+1, err)
	}
}
