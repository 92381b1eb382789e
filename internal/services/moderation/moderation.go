package moderation

import (
	"context"

	"github.com/ananyev/craftmarket/internal/model"
	"github.com/ananyev/craftmarket/internal/storage"
	"github.com/pkg/errors"
)

var ErrReviewNotFound = errors.New("review not found")

type Storage interface {
	GetReviewByID(ctx context.Context, id string) (*model.Review, error)
	ListHeldReviews(ctx context.Context) ([]model.Review, error)
	UpdateReviewModeration(ctx context.Context, id string, isApproved, isHidden *bool) error
}

type Service struct {
	storage Storage
}

func New(storage Storage) *Service { return &Service{storage: storage} }

// ListHeld returns unpublished reviews, newest first, with the trust flags
// that drove the automated hold.
func (s *Service) ListHeld(ctx context.Context) (*model.HeldReviewsResponse, error) {
	rows, err := s.storage.ListHeldReviews(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list held reviews")
	}

	items := make([]model.HeldReviewItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.HeldReviewItem{Review: r, Flags: r.Flags})
	}

	return &model.HeldReviewsResponse{Items: items}, nil
}

// Moderate applies a human decision over the automated one. No automated
// re-evaluation happens afterwards; the human decision stands until another
// human changes it.
func (s *Service) Moderate(ctx context.Context, id string, dto model.ModerateReviewDTO) (*model.Review, error) {
	if _, err := s.storage.GetReviewByID(ctx, id); err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, errors.Wrap(err, "get review")
	}

	if err := s.storage.UpdateReviewModeration(ctx, id, dto.IsApproved, dto.IsHidden); err != nil {
		return nil, errors.Wrap(err, "update review moderation")
	}

	rec, err := s.storage.GetReviewByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "reload review")
	}
	return rec, nil
}
