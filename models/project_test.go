package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestProjectSlug(t *testing.T) {
	id := uuid.MustParse("6f1c2b3a-0000-4000-8000-000000000001")

	tests := []struct {
		title string
		want  string
	}{
		{"Solar Pumps for Farms", "solar-pumps-for-farms-6f1c2b3a"},
		{"  Café   Düsseldorf!  ", "cafe-dusseldorf-6f1c2b3a"},
		{"!!!", "6f1c2b3a"},
	}
	for _, tt := range tests {
		if got := ProjectSlug(tt.title, id); got != tt.want {
			t.Errorf("ProjectSlug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestBeforeCreateAssignsIdentity(t *testing.T) {
	p := &Project{Title: "Looms"}
	if err := p.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}
	if p.ID == uuid.Nil {
		t.Fatal("id not assigned")
	}
	if !strings.HasPrefix(p.Slug, "looms-") {
		t.Fatalf("slug = %q", p.Slug)
	}

	kept := &Project{Title: "Looms", Slug: "custom"}
	_ = kept.BeforeCreate(nil)
	if kept.Slug != "custom" {
		t.Fatalf("slug overwritten: %q", kept.Slug)
	}
}
