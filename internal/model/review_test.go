package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSubmitReviewDTOValidate(t *testing.T) {
	valid := SubmitReviewDTO{
		VendorID: "v1",
		Rating:   4,
		Title:    "Solid work",
		Comment:  "Arrived on time and exactly as described.",
		Images:   []string{"https://cdn.example.com/a.jpg"},
	}
	if errs := valid.Validate(); len(errs) > 0 {
		t.Fatalf("valid dto rejected: %v", errs)
	}

	cases := []struct {
		name  string
		mut   func(d *SubmitReviewDTO)
		field string
		want  string
	}{
		{"missing vendor", func(d *SubmitReviewDTO) { d.VendorID = "" }, "vendorId", ErrEmptyField},
		{"rating too low", func(d *SubmitReviewDTO) { d.Rating = 0 }, "rating", ErrInvalidField},
		{"rating too high", func(d *SubmitReviewDTO) { d.Rating = 6 }, "rating", ErrInvalidField},
		{"no text at all", func(d *SubmitReviewDTO) { d.Title = ""; d.Comment = "" }, "title", ErrEmptyField},
		{"title too short", func(d *SubmitReviewDTO) { d.Title = "ok" }, "title", ErrInvalidField},
		{"title too long", func(d *SubmitReviewDTO) { d.Title = strings.Repeat("a", TitleMaxLen+1) }, "title", ErrInvalidField},
		{"comment too short", func(d *SubmitReviewDTO) { d.Comment = "short" }, "comment", ErrInvalidField},
		{"control characters", func(d *SubmitReviewDTO) { d.Comment = "line one\nline two of text" }, "comment", ErrInvalidField},
		{"too many images", func(d *SubmitReviewDTO) {
			d.Images = []string{"https://x/1", "https://x/2", "https://x/3", "https://x/4", "https://x/5", "https://x/6"}
		}, "images", ErrInvalidField},
		{"relative image url", func(d *SubmitReviewDTO) { d.Images = []string{"/a.jpg"} }, "images", ErrInvalidField},
		{"non-http image url", func(d *SubmitReviewDTO) { d.Images = []string{"ftp://cdn.example.com/a.jpg"} }, "images", ErrInvalidField},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dto := valid
			c.mut(&dto)
			errs := dto.Validate()
			if errs[c.field] != c.want {
				t.Fatalf("want %s=%s, got %v", c.field, c.want, errs)
			}
		})
	}
}

func TestSubmitReviewDTOTitleOnly(t *testing.T) {
	dto := SubmitReviewDTO{VendorID: "v1", Rating: 5, Title: "Great"}
	if errs := dto.Validate(); len(errs) > 0 {
		t.Fatalf("title-only dto rejected: %v", errs)
	}
}

func TestModerateReviewDTOValidate(t *testing.T) {
	var dto ModerateReviewDTO
	if errs := dto.Validate(); len(errs) == 0 {
		t.Fatal("empty moderation dto accepted")
	}

	v := true
	dto.IsHidden = &v
	if errs := dto.Validate(); len(errs) > 0 {
		t.Fatalf("hidden-only dto rejected: %v", errs)
	}
}

func TestReviewFlagsNotSerialized(t *testing.T) {
	rec := Review{ID: "r1", Flags: []string{string(FlagNewAccount)}}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "NEW_ACCOUNT") {
		t.Fatalf("flags leaked into author-facing payload: %s", b)
	}
}

func TestTrustFlagSet(t *testing.T) {
	var s TrustFlagSet
	s.Add(FlagExcessiveCaps)
	s.Add(FlagNewAccount)
	s.Add(FlagExcessiveCaps)

	if s.Len() != 2 {
		t.Fatalf("duplicate not ignored, len=%d", s.Len())
	}
	if got := s.Flags(); got[0] != FlagExcessiveCaps || got[1] != FlagNewAccount {
		t.Fatalf("insertion order lost: %v", got)
	}
	if !s.RequiresModeration() {
		t.Fatal("blocking flag not detected")
	}

	var advisory TrustFlagSet
	advisory.Add(FlagExcessiveCaps)
	advisory.Add(FlagRepetitiveContent)
	if advisory.RequiresModeration() {
		t.Fatal("advisory-only set requires moderation")
	}
}
