package classify

import (
	"reflect"
	"testing"
)

func TestCategoryFirstMatchWins(t *testing.T) {
	c := Default()
	// "ceremony" (wedding-day) must beat "laughed" (funny) because the
	// wedding-day rule is checked first.
	got := c.Category("We met at the wedding ceremony and laughed all night")
	if got != "wedding-day" {
		t.Fatalf("expected wedding-day, got %q", got)
	}
}

func TestCategoryTableOrder(t *testing.T) {
	c := Default()
	cases := []struct {
		text string
		want string
	}{
		{"the vows made everyone cry", "wedding-day"},
		{"we were introduced by a mutual friend", "how-we-met"},
		{"the best man's joke killed", "funny"},
		{"such a beautiful evening", "heartfelt"},
		{"I remember our college days", "memories"},
	}
	for _, tc := range cases {
		if got := c.Category(tc.text); got != tc.want {
			t.Fatalf("Category(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestCategoryFallback(t *testing.T) {
	c := Default()
	if got := c.Category("congratulations to you both"); got != DefaultFallback {
		t.Fatalf("expected fallback %q, got %q", DefaultFallback, got)
	}
}

func TestTagsCappedAtThree(t *testing.T) {
	c := Default()
	text := "we danced, ate cake with family, saw old friends and planned a trip"
	got := c.Tags(text)
	want := []string{"dancing", "food", "family"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tags = %v, want %v", got, want)
	}
}

func TestTagsNoMatch(t *testing.T) {
	c := Default()
	if got := c.Tags("short and sweet"); len(got) != 0 {
		t.Fatalf("expected no tags, got %v", got)
	}
}

func TestCaseInsensitive(t *testing.T) {
	c := Default()
	if got := c.Category("THE CEREMONY WAS PERFECT"); got != "wedding-day" {
		t.Fatalf("expected wedding-day, got %q", got)
	}
}

func TestLabelAndKnownCategory(t *testing.T) {
	c := Default()
	if got := c.Label("wedding-day"); got != "Wedding Day" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := c.Label("mystery"); got != "mystery" {
		t.Fatalf("unknown ids should echo, got %q", got)
	}
	if !c.KnownCategory("funny") || !c.KnownCategory(DefaultFallback) {
		t.Fatal("expected table entries and fallback to be known")
	}
	if c.KnownCategory("mystery") {
		t.Fatal("unexpected known category")
	}
}
