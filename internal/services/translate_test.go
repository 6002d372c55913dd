package services

import (
	"reflect"
	"testing"
)

func TestTranslateTagsKnownVocabulary(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "bracelet tags",
			in:   []string{"bracelet", "blue", "beads"},
			want: []string{"náramek", "modrá", "korálky"},
		},
		{
			name: "case and whitespace insensitive",
			in:   []string{" Bracelet ", "BLUE"},
			want: []string{"náramek", "modrá"},
		},
		{
			name: "multiword labels",
			in:   []string{"natural material", "gift card", "jewelry making"},
			want: []string{"přírodní materiál", "dárková kartička", "výroba šperků"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TranslateTags(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("TranslateTags(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTranslateTagsUnknownGetsMarker(t *testing.T) {
	got := TranslateTags([]string{"steampunk"})
	if len(got) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(got))
	}
	if got[0] != "steampunk (EN)" {
		t.Fatalf("unknown tag = %q, want %q", got[0], "steampunk (EN)")
	}
}

func TestTranslateTagsCzechPassthrough(t *testing.T) {
	in := []string{"náramek", "rozměr 5x5 cm"}
	got := TranslateTags(in)
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("Czech tags should pass unchanged, got %v", got)
	}
}

func TestTranslateTagsPreservesLengthAndOrder(t *testing.T) {
	in := []string{"blue", "mystery-label", "bracelet", "another-unknown"}
	got := TranslateTags(in)
	if len(got) != len(in) {
		t.Fatalf("length changed: in %d, out %d", len(in), len(got))
	}
	if got[0] != "modrá" || got[2] != "náramek" {
		t.Fatalf("order not preserved: %v", got)
	}
}

func TestTranslateTagsMarkerNotDoubled(t *testing.T) {
	first := TranslateTags([]string{"mystery-label"})
	second := TranslateTags(first)
	if second[0] != first[0] {
		t.Fatalf("re-translation changed tag: %q -> %q", first[0], second[0])
	}
}

func TestLooksCzech(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"náramek", true},
		{"rozměr 5x5 cm", true},
		{"bracelet", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := LooksCzech(tc.in); got != tc.want {
			t.Errorf("LooksCzech(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
