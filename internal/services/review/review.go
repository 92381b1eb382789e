package review

import (
	"context"
	"time"

	"github.com/ananyev/craftmarket/internal/logger"
	"github.com/ananyev/craftmarket/internal/metrics"
	"github.com/ananyev/craftmarket/internal/model"
	"github.com/ananyev/craftmarket/internal/storage"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	ErrDuplicateReview = errors.New("review already exists for this vendor")
	ErrSelfReview      = errors.New("authors cannot review themselves")
	ErrVendorNotFound  = errors.New("vendor not found")
)

var log zerolog.Logger

type Storage interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetReviewByAuthorAndVendor(ctx context.Context, authorID, vendorID string) (*model.Review, error)
	CreateReview(ctx context.Context, rec *model.Review) error
	ListAuthorRatings(ctx context.Context, authorID string) ([]int, error)
	ListVendorReviews(ctx context.Context, vendorID string) ([]model.Review, error)
}

// Notifier delivery is best-effort: a failure is logged and swallowed,
// never surfaced to the submitting author.
type Notifier interface {
	ReviewPublished(ctx context.Context, vendorID string, rec *model.Review) error
}

type Service struct {
	storage  Storage
	engine   *Engine
	notifier Notifier
}

func New(storage Storage, engine *Engine, notifier Notifier) *Service {
	log = *logger.Log
	log = log.With().Str("name", "review-service").Logger()

	return &Service{storage: storage, engine: engine, notifier: notifier}
}

// Submit runs the integrity pipeline over a structurally valid submission:
// self-review and recipient checks, the duplicate gate, then the decision
// engine. The record is persisted with the engine's publish state; the
// vendor is notified only on immediate publication.
func (s *Service) Submit(ctx context.Context, authorID string, dto model.SubmitReviewDTO) (*model.SubmitReviewResponse, error) {
	if authorID == dto.VendorID {
		return nil, ErrSelfReview
	}

	vendor, err := s.storage.GetUserByID(ctx, dto.VendorID)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, errors.Wrap(err, "get vendor")
	}
	if vendor.Role != model.Vendor {
		return nil, ErrVendorNotFound
	}

	if _, err := s.storage.GetReviewByAuthorAndVendor(ctx, authorID, dto.VendorID); err == nil {
		return nil, ErrDuplicateReview
	} else if !errors.Is(err, storage.ErrEntityNotFound) {
		return nil, errors.Wrap(err, "check existing review")
	}

	author, err := s.storage.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, errors.Wrap(err, "get author")
	}
	history, err := s.storage.ListAuthorRatings(ctx, authorID)
	if err != nil {
		return nil, errors.Wrap(err, "list author ratings")
	}

	now := time.Now().UTC()

	decision, err := s.engine.Evaluate(ctx, dto, EvalContext{
		AuthorID:       authorID,
		AccountAgeDays: author.AccountAgeDays(now),
		History:        history,
	})
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			metrics.ReviewDecisions.WithLabelValues(metrics.ResultRateLimited).Inc()
		}
		return nil, err
	}

	rec := &model.Review{
		ID:         uuid.NewString(),
		AuthorID:   authorID,
		VendorID:   dto.VendorID,
		Rating:     dto.Rating,
		Title:      dto.Title,
		Comment:    dto.Comment,
		Images:     pq.StringArray(dto.Images),
		IsApproved: decision.Publish,
		CreatedAt:  now,
	}
	for _, f := range decision.Flags.Flags() {
		rec.Flags = append(rec.Flags, string(f))
	}

	if err := s.storage.CreateReview(ctx, rec); err != nil {
		// lost the race against a concurrent submission for the same pair
		if errors.Is(err, storage.ErrEntityExists) {
			return nil, ErrDuplicateReview
		}
		return nil, errors.Wrap(err, "create review")
	}

	if decision.Publish {
		metrics.ReviewDecisions.WithLabelValues(metrics.ResultPublished).Inc()
		if err := s.notifier.ReviewPublished(ctx, dto.VendorID, rec); err != nil {
			log.Warn().Err(err).Str("review", rec.ID).Msg("notify vendor failed")
		}
	} else {
		metrics.ReviewDecisions.WithLabelValues(metrics.ResultHeld).Inc()
		log.Info().
			Str("review", rec.ID).
			Interface("flags", rec.Flags).
			Msg("review held for moderation")
	}

	return &model.SubmitReviewResponse{Review: rec, Published: decision.Publish}, nil
}

// ListForVendor returns the published reviews of a vendor, newest first.
func (s *Service) ListForVendor(ctx context.Context, vendorID string) (*model.VendorReviewsResponse, error) {
	vendor, err := s.storage.GetUserByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, errors.Wrap(err, "get vendor")
	}
	if vendor.Role != model.Vendor {
		return nil, ErrVendorNotFound
	}

	items, err := s.storage.ListVendorReviews(ctx, vendorID)
	if err != nil {
		return nil, errors.Wrap(err, "list vendor reviews")
	}
	if items == nil {
		items = []model.Review{}
	}

	return &model.VendorReviewsResponse{Items: items}, nil
}
