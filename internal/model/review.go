package model

import (
	"net/url"
	"regexp"
	"time"

	"github.com/lib/pq"
)

const (
	RatingMin = 1
	RatingMax = 5

	TitleMinLen   = 3
	TitleMaxLen   = 100
	CommentMinLen = 10
	CommentMaxLen = 1000
	MaxImages     = 5
)

// Printable unicode text, no control characters.
var reviewTextPattern = regexp.MustCompile(`^[\p{L}\p{N}\p{P}\p{Sc} ]+$`)

type Review struct {
	ID         string         `db:"id" json:"id"`
	AuthorID   string         `db:"author_id" json:"authorId"`
	VendorID   string         `db:"vendor_id" json:"vendorId"`
	Rating     int            `db:"rating" json:"rating"`
	Title      string         `db:"title" json:"title,omitempty"`
	Comment    string         `db:"comment" json:"comment,omitempty"`
	Images     pq.StringArray `db:"images" json:"images,omitempty"`
	IsApproved bool           `db:"is_approved" json:"isApproved"`
	IsHidden   bool           `db:"is_hidden" json:"isHidden"`
	IsVerified bool           `db:"is_verified" json:"isVerified"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`

	// Flags are moderator-facing only, never serialized toward the author.
	Flags pq.StringArray `db:"flags" json:"-"`
}

type SubmitReviewDTO struct {
	Validator

	VendorID string   `json:"vendorId"`
	Rating   int      `json:"rating"`
	Title    string   `json:"title"`
	Comment  string   `json:"comment"`
	Images   []string `json:"images"`
}

func validText(s string, min, max int) string {
	n := len([]rune(s))
	if n < min || n > max {
		return ErrInvalidField
	}
	if !reviewTextPattern.MatchString(s) {
		return ErrInvalidField
	}
	return ""
}

func (dto SubmitReviewDTO) Validate() map[string]string {
	errs := map[string]string{}

	if dto.VendorID == "" {
		errs["vendorId"] = ErrEmptyField
	}
	if dto.Rating < RatingMin || dto.Rating > RatingMax {
		errs["rating"] = ErrInvalidField
	}
	if dto.Title == "" && dto.Comment == "" {
		errs["title"] = ErrEmptyField
		errs["comment"] = ErrEmptyField
	}
	if dto.Title != "" {
		if msg := validText(dto.Title, TitleMinLen, TitleMaxLen); msg != "" {
			errs["title"] = msg
		}
	}
	if dto.Comment != "" {
		if msg := validText(dto.Comment, CommentMinLen, CommentMaxLen); msg != "" {
			errs["comment"] = msg
		}
	}
	if len(dto.Images) > MaxImages {
		errs["images"] = ErrInvalidField
	} else {
		for _, img := range dto.Images {
			u, err := url.Parse(img)
			if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
				errs["images"] = ErrInvalidField
				break
			}
		}
	}

	return errs
}

// SubmitReviewResponse carries the created record. Flags are shown to the
// author only as an opaque "held for moderation" signal; the concrete flag
// list is moderator-facing.
type SubmitReviewResponse struct {
	Review    *Review `json:"review"`
	Published bool    `json:"published"`
}

type ModerateReviewDTO struct {
	Validator

	IsApproved *bool `json:"isApproved"`
	IsHidden   *bool `json:"isHidden"`
}

func (dto ModerateReviewDTO) Validate() map[string]string {
	errs := map[string]string{}
	if dto.IsApproved == nil && dto.IsHidden == nil {
		errs["isApproved"] = ErrEmptyField
	}
	return errs
}

type HeldReviewItem struct {
	Review
	Flags []string `json:"flags,omitempty"`
}

type HeldReviewsResponse struct {
	Items []HeldReviewItem `json:"items"`
}

type VendorReviewsResponse struct {
	Items []Review `json:"items"`
}
