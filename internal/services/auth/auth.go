package auth

import (
	"context"
	"time"

	"github.com/ananyev/craftmarket/internal/lib/jwt"
	"github.com/ananyev/craftmarket/internal/logger"
	"github.com/ananyev/craftmarket/internal/model"
	"github.com/ananyev/craftmarket/internal/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var log zerolog.Logger

const (
	staffAccessTokenTTL = time.Minute * 30
	accessTokenTTL      = time.Hour * 6
	refreshTokenTTL     = time.Hour * 24 * 30
)

var (
	ErrTokenNotFound      = errors.New("token not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailNotUnique     = errors.New("email not unique")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthStorage interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	RegisterUser(ctx context.Context, dto *model.RegisterUserDTO) (userID string, tempPassword string, err error)
	CreateSession(ctx context.Context, session *model.Session) error
	GetSessionBySID(ctx context.Context, sID string) (*model.Session, error)
	GetSessionByRToken(ctx context.Context, rToken string) (*model.Session, error)
	DeleteSessionByRToken(ctx context.Context, rToken string) error
	DeleteSessionsByUserID(ctx context.Context, userID string) error
	SetNewPassword(ctx context.Context, userID, password string, temporary bool) error
}

type Auth struct {
	storage AuthStorage
}

func New(storage AuthStorage) *Auth {
	log = *logger.Log
	log = log.With().Str("name", "auth-service").Logger()

	return &Auth{storage: storage}
}

func (a *Auth) ValidateSession(ctx context.Context) error {
	claims := ctx.Value(jwt.CtxKeyClaims).(model.UserClaim)
	token := ctx.Value(jwt.CtxKeyToken).(string)

	session, err := a.storage.GetSessionBySID(ctx, claims.SID)
	if err != nil {
		return errors.Wrap(err, "session not found")
	}
	if session.UserID != claims.ID {
		return errors.New("session not valid")
	}
	if token != session.AccessToken {
		return errors.New("token not valid")
	}

	return nil
}

// Register creates an account with a server-generated temporary password,
// which the user is forced to change on first login.
func (a *Auth) Register(ctx context.Context, dto *model.RegisterUserDTO) (string, error) {
	_, err := a.storage.GetUserByEmail(ctx, dto.Email)
	if err == nil {
		return "", ErrEmailNotUnique
	}
	if !errors.Is(err, storage.ErrEntityNotFound) {
		return "", errors.Wrap(err, "get user by email")
	}

	_, tempPassword, err := a.storage.RegisterUser(ctx, dto)
	if err != nil {
		return "", errors.Wrap(err, "create user")
	}

	return tempPassword, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	user, err := a.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sID := uuid.NewString()

	accessToken, err := jwt.NewToken(model.JwtDTO{
		ID:                user.ID,
		Role:              user.Role,
		SID:               sID,
		PasswordTemporary: user.PasswordTemporary,
	}, a.accessTTL(user.Role))
	if err != nil {
		return nil, errors.Wrap(err, "generate access token")
	}
	refreshToken, err := jwt.NewToken(model.JwtDTO{ID: user.ID, SID: sID}, refreshTokenTTL)
	if err != nil {
		return nil, errors.Wrap(err, "generate refresh token")
	}

	if err := a.storage.CreateSession(ctx, &model.Session{
		ID:           sID,
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, errors.Wrap(err, "create session")
	}

	return &model.LoginResponse{
		TokenType:    "Bearer",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (a *Auth) RefreshToken(ctx context.Context, refreshToken string) (*model.RefreshTokenResponse, error) {
	session, err := a.storage.GetSessionByRToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, errors.Wrap(err, "refresh token")
	}

	user, err := a.storage.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "refresh token")
	}

	sID := uuid.NewString()

	accessToken, err := jwt.NewToken(model.JwtDTO{
		ID:                user.ID,
		Role:              user.Role,
		SID:               sID,
		PasswordTemporary: user.PasswordTemporary,
	}, a.accessTTL(user.Role))
	if err != nil {
		return nil, errors.Wrap(err, "generate access token")
	}
	newRefreshToken, err := jwt.NewToken(model.JwtDTO{ID: user.ID, SID: sID}, refreshTokenTTL)
	if err != nil {
		return nil, errors.Wrap(err, "generate refresh token")
	}

	if err := a.storage.DeleteSessionByRToken(ctx, refreshToken); err != nil {
		return nil, errors.Wrap(err, "delete session")
	}
	if err := a.storage.CreateSession(ctx, &model.Session{
		ID:           sID,
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, errors.Wrap(err, "create session")
	}

	return &model.RefreshTokenResponse{
		TokenType:    "Bearer",
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (a *Auth) ChangePassword(ctx context.Context, password, newPassword string) error {
	claims := ctx.Value(jwt.CtxKeyClaims).(model.UserClaim)

	user, err := a.storage.GetUserByID(ctx, claims.ID)
	if err != nil {
		return errors.Wrap(err, "get user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	if err := a.storage.DeleteSessionsByUserID(ctx, claims.ID); err != nil {
		return errors.Wrap(err, "delete sessions")
	}
	if err := a.storage.SetNewPassword(ctx, claims.ID, newPassword, false); err != nil {
		return errors.Wrap(err, "set new password")
	}

	return nil
}

func (a *Auth) accessTTL(role string) time.Duration {
	switch role {
	case model.Admin, model.Moderator:
		return staffAccessTokenTTL
	default:
		return accessTokenTTL
	}
}
