package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/ananyev/craftmarket/internal/logger"
	"github.com/ananyev/craftmarket/internal/model"
	"github.com/ananyev/craftmarket/internal/storage"
	"github.com/ananyev/craftmarket/pkg/pgx"
	"github.com/ananyev/craftmarket/pkg/security"
	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var log zerolog.Logger

type Storage struct {
	db *pgx.Postgres
}

func NewStorage(ctx context.Context, db *pgx.Postgres) *Storage {
	log = *logger.Log
	log = log.With().Str("name", "storage").Logger()

	return &Storage{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "email", "name", "role", "password_hash", "password_temporary", "created_at").
		From(`"user"`).
		Where(sb.Equal("email", email))

	query, args := sb.BuildWithFlavor(sqlbuilder.PostgreSQL)

	var user model.User
	if err := s.db.GetConn().GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, errors.Wrap(err, "get user by email")
	}

	return &user, nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "email", "name", "role", "password_hash", "password_temporary", "created_at").
		From(`"user"`).
		Where(sb.Equal("id", id))

	query, args := sb.BuildWithFlavor(sqlbuilder.PostgreSQL)

	var user model.User
	if err := s.db.GetConn().GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, errors.Wrap(err, "get user by id")
	}

	return &user, nil
}

func (s *Storage) RegisterUser(ctx context.Context, dto *model.RegisterUserDTO) (string, string, error) {
	password, err := security.GenerateTempPassword(8)
	if err != nil {
		return "", "", errors.Wrap(err, "password gen")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 0)
	if err != nil {
		return "", "", errors.Wrap(err, "hash")
	}

	role := dto.Role
	if role == "" {
		role = model.Customer
	}

	ib := sqlbuilder.NewInsertBuilder()
	ib.InsertInto(`"user"`).
		Cols("email", "password_hash", "role", "password_temporary", "created_at").
		Values(dto.Email, string(hash), role, true, time.Now().UTC()).
		SQL("RETURNING id")

	query, args := ib.BuildWithFlavor(sqlbuilder.PostgreSQL)

	var userID string
	if err := s.db.GetConn().GetContext(ctx, &userID, query, args...); err != nil {
		if isUniqueViolation(err) {
			return "", "", storage.ErrEntityExists
		}
		return "", "", errors.Wrap(err, "create user")
	}

	return userID, password, nil
}

func (s *Storage) SetNewPassword(ctx context.Context, userID, password string, temporary bool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 0)
	if err != nil {
		return errors.Wrap(err, "hash")
	}

	ub := sqlbuilder.NewUpdateBuilder()
	ub.Update(`"user"`).
		Set(
			ub.Assign("password_hash", string(hash)),
			ub.Assign("password_temporary", temporary),
		).
		Where(ub.Equal("id", userID))

	query, args := ub.BuildWithFlavor(sqlbuilder.PostgreSQL)
	if _, err := s.db.GetConn().ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "set new password")
	}
	return nil
}

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	ib := sqlbuilder.NewInsertBuilder()
	ib.InsertInto("session").
		Cols("id", "user_id", "access_token", "refresh_token", "expires_at").
		Values(session.ID, session.UserID, session.AccessToken, session.RefreshToken, session.ExpiresAt)

	query, args := ib.BuildWithFlavor(sqlbuilder.PostgreSQL)
	if _, err := s.db.GetConn().ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "create session")
	}
	return nil
}

func (s *Storage) GetSessionBySID(ctx context.Context, sID string) (*model.Session, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "user_id", "access_token", "refresh_token", "expires_at").
		From("session").
		Where(sb.Equal("id", sID))

	query, args := sb.BuildWithFlavor(sqlbuilder.PostgreSQL)

	var session model.Session
	if err := s.db.GetConn().GetContext(ctx, &session, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, errors.Wrap(err, "get session by sID")
	}

	return &session, nil
}

func (s *Storage) GetSessionByRToken(ctx context.Context, rToken string) (*model.Session, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "user_id", "access_token", "refresh_token", "expires_at").
		From("session").
		Where(sb.Equal("refresh_token", rToken))

	query, args := sb.BuildWithFlavor(sqlbuilder.PostgreSQL)

	var session model.Session
	if err := s.db.GetConn().GetContext(ctx, &session, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, errors.Wrap(err, "get session by refresh token")
	}

	if session.ExpiresAt.Before(time.Now()) {
		if err := s.DeleteSessionByRToken(ctx, rToken); err != nil {
			return nil, errors.Wrap(err, "delete expired session")
		}
		return nil, storage.ErrEntityNotFound
	}

	return &session, nil
}

func (s *Storage) DeleteSessionByRToken(ctx context.Context, rToken string) error {
	db := sqlbuilder.NewDeleteBuilder()
	db.DeleteFrom("session").Where(db.Equal("refresh_token", rToken))

	query, args := db.BuildWithFlavor(sqlbuilder.PostgreSQL)
	if _, err := s.db.GetConn().ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "delete session by refresh token")
	}
	return nil
}

func (s *Storage) DeleteSessionsByUserID(ctx context.Context, userID string) error {
	db := sqlbuilder.NewDeleteBuilder()
	db.DeleteFrom("session").Where(db.Equal("user_id", userID))

	query, args := db.BuildWithFlavor(sqlbuilder.PostgreSQL)
	if _, err := s.db.GetConn().ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "delete sessions by user id")
	}
	return nil
}

const reviewCols = "id, author_id, vendor_id, rating, title, comment, images, flags, is_approved, is_hidden, is_verified, created_at"

// CreateReview relies on the unique index over (author_id, vendor_id); a
// violation surfaces as storage.ErrEntityExists so the caller can map it to
// its duplicate-review condition.
func (s *Storage) CreateReview(ctx context.Context, rec *model.Review) error {
	ib := sqlbuilder.NewInsertBuilder()
	ib.InsertInto("review").
		Cols("id", "author_id", "vendor_id", "rating", "title", "comment", "images", "flags",
			"is_approved", "is_hidden", "is_verified", "created_at").
		Values(rec.ID, rec.AuthorID, rec.VendorID, rec.Rating, rec.Title, rec.Comment,
			rec.Images, rec.Flags, rec.IsApproved, rec.IsHidden, rec.IsVerified, rec.CreatedAt)

	query, args := ib.BuildWithFlavor(sqlbuilder.PostgreSQL)
	if _, err := s.db.GetConn().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrEntityExists
		}
		return errors.Wrap(err, "insert review")
	}
	return nil
}

func (s *Storage) GetReviewByID(ctx context.Context, id string) (*model.Review, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(reviewCols).From("review").Where(sb.Equal("id", id)).Limit(1)

	query, args := sb.BuildWithFlavor(sqlbuilder.PostgreSQL)

	var rec model.Review
	if err := s.db.GetConn().GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, errors.Wrap(err, "get review by id")
	}

	return &rec, nil
}

func (s *Storage) GetReviewByAuthorAndVendor(ctx context.Context, authorID, vendorID string) (*model.Review, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(reviewCols).From("review").
		Where(sb.And(
			sb.Equal("author_id", authorID),
			sb.Equal("vendor_id", vendorID),
		)).Limit(1)

	query, args := sb.BuildWithFlavor(sqlbuilder.PostgreSQL)

	var rec model.Review
	if err := s.db.GetConn().GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, errors.Wrap(err, "get review by author and vendor")
	}

	return &rec, nil
}

func (s *Storage) ListAuthorRatings(ctx context.Context, authorID string) ([]int, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("rating").From("review").
		Where(sb.Equal("author_id", authorID)).
		OrderBy("created_at ASC")

	query, args := sb.BuildWithFlavor(sqlbuilder.PostgreSQL)

	var ratings []int
	if err := s.db.GetConn().SelectContext(ctx, &ratings, query, args...); err != nil {
		return nil, errors.Wrap(err, "list author ratings")
	}
	return ratings, nil
}

func (s *Storage) ListVendorReviews(ctx context.Context, vendorID string) ([]model.Review, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(reviewCols).From("review").
		Where(sb.And(
			sb.Equal("vendor_id", vendorID),
			sb.Equal("is_approved", true),
			sb.Equal("is_hidden", false),
		)).
		OrderBy("created_at DESC")

	query, args := sb.BuildWithFlavor(sqlbuilder.PostgreSQL)

	var out []model.Review
	if err := s.db.GetConn().SelectContext(ctx, &out, query, args...); err != nil {
		return nil, errors.Wrap(err, "list vendor reviews")
	}
	return out, nil
}

func (s *Storage) ListHeldReviews(ctx context.Context) ([]model.Review, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(reviewCols).From("review").
		Where(sb.Equal("is_approved", false)).
		OrderBy("created_at DESC")

	query, args := sb.BuildWithFlavor(sqlbuilder.PostgreSQL)

	var out []model.Review
	if err := s.db.GetConn().SelectContext(ctx, &out, query, args...); err != nil {
		return nil, errors.Wrap(err, "list held reviews")
	}
	return out, nil
}

func (s *Storage) UpdateReviewModeration(ctx context.Context, id string, isApproved, isHidden *bool) error {
	ub := sqlbuilder.NewUpdateBuilder()
	ub.Update("review")
	if isApproved != nil {
		ub.SetMore(ub.Assign("is_approved", *isApproved))
	}
	if isHidden != nil {
		ub.SetMore(ub.Assign("is_hidden", *isHidden))
	}
	ub.Where(ub.Equal("id", id))

	query, args := ub.BuildWithFlavor(sqlbuilder.PostgreSQL)
	_, err := s.db.GetConn().ExecContext(ctx, query, args...)
	return errors.Wrap(err, "update review moderation")
}

func (s *Storage) CreateContactMessage(ctx context.Context, msg *model.ContactMessage) error {
	ib := sqlbuilder.NewInsertBuilder()
	ib.InsertInto("contact_message").
		Cols("id", "sender_id", "vendor_id", "reply_to", "subject", "body", "created_at").
		Values(msg.ID, msg.SenderID, msg.VendorID, msg.ReplyTo, msg.Subject, msg.Body, msg.CreatedAt)

	query, args := ib.BuildWithFlavor(sqlbuilder.PostgreSQL)
	if _, err := s.db.GetConn().ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "insert contact_message")
	}
	return nil
}
