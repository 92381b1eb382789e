package contact

import (
	"context"
	"time"

	"github.com/ananyev/craftmarket/internal/lib/contentfilter"
	"github.com/ananyev/craftmarket/internal/logger"
	"github.com/ananyev/craftmarket/internal/metrics"
	"github.com/ananyev/craftmarket/internal/model"
	"github.com/ananyev/craftmarket/internal/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	ErrContentRejected = errors.New("message content rejected")
	ErrDisposableEmail = errors.New("disposable reply address")
	ErrVendorNotFound  = errors.New("vendor not found")
)

var log zerolog.Logger

type Storage interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	CreateContactMessage(ctx context.Context, msg *model.ContactMessage) error
}

type Notifier interface {
	ContactReceived(ctx context.Context, vendorID string, msg *model.ContactMessage) error
}

type Service struct {
	storage  Storage
	notifier Notifier
}

func New(storage Storage, notifier Notifier) *Service {
	log = *logger.Log
	log = log.With().Str("name", "contact-service").Logger()

	return &Service{storage: storage, notifier: notifier}
}

// Create is the hard-gate call site of the content classifier: unlike review
// submissions, a contact message that trips the filter is rejected outright
// rather than flagged for moderation.
func (s *Service) Create(ctx context.Context, senderID string, dto model.CreateContactDTO) (*model.ContactMessage, error) {
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

	if contentfilter.IsDisposableEmail(dto.ReplyTo) {
		metrics.ContactRejections.WithLabelValues(metrics.RejectDisposable).Inc()
		return nil, ErrDisposableEmail
	}

	for _, text := range []string{dto.Subject, dto.Body} {
		if res := contentfilter.Check(text); !res.IsValid {
			metrics.ContactRejections.WithLabelValues(metrics.RejectContent).Inc()
			log.Info().Strs("issues", res.Issues).Msg("contact message rejected")
			return nil, ErrContentRejected
		}
	}

	msg := &model.ContactMessage{
		ID:        uuid.NewString(),
		SenderID:  senderID,
		VendorID:  dto.VendorID,
		ReplyTo:   dto.ReplyTo,
		Subject:   dto.Subject,
		Body:      dto.Body,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.storage.CreateContactMessage(ctx, msg); err != nil {
		return nil, errors.Wrap(err, "create contact message")
	}

	if err := s.notifier.ContactReceived(ctx, dto.VendorID, msg); err != nil {
		log.Warn().Err(err).Str("message", msg.ID).Msg("notify vendor failed")
	}

	return msg, nil
}
