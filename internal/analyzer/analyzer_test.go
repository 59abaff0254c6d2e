package analyzer

import (
	"reflect"
	"strings"
	"testing"
)

// TestTermsNormalizes covers segmentation on punctuation, case folding,
// and stemming, with output order matching input order.
func TestTermsNormalizes(t *testing.T) {
	an := New()
	cases := []struct {
		text string
		want []string
	}{
		{"running runs", []string{"run", "run"}},
		{"Run fast!", []string{"run", "fast"}},
		{"Hello, world...", []string{"hello", "world"}},
		{"state-of-the-art", []string{"state", "of", "the", "art"}},
		{"  \t\n ", nil},
		{"", nil},
		{"C3PO met R2D2", []string{"c3po", "met", "r2d2"}},
	}
	for _, tc := range cases {
		got := an.Terms(tc.text)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Terms(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

// TestCounts checks per-term frequencies and the total term count.
func TestCounts(t *testing.T) {
	an := New()
	counts, total := an.Counts("Running runs; she runs fast")
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if counts["run"] != 3 {
		t.Errorf(`counts["run"] = %d, want 3`, counts["run"])
	}
	if counts["fast"] != 1 {
		t.Errorf(`counts["fast"] = %d, want 1`, counts["fast"])
	}
}

// TestCustomFilterChain checks that extra stages slot in without touching
// tokenization.
func TestCustomFilterChain(t *testing.T) {
	dropShort := func(token string) (string, bool) {
		return token, len(token) > 2
	}
	an := New(dropShort, Stem)
	got := an.Terms("an ox is running")
	want := []string{"run"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Terms = %v, want %v", got, want)
	}
}

func TestTermsLargeInputStable(t *testing.T) {
	an := New()
	text := strings.Repeat("jumping ", 1000)
	got := an.Terms(text)
	if len(got) != 1000 {
		t.Fatalf("got %d terms, want 1000", len(got))
	}
	for _, term := range got {
		if term != "jump" {
			t.Fatalf("term = %q, want %q", term, "jump")
		}
	}
}
