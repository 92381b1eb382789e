package server

import (
	"context"
	"net/http"
	"time"

	"github.com/ananyev/craftmarket/internal/lib/jwt"
	"github.com/ananyev/craftmarket/internal/logger"
	"github.com/ananyev/craftmarket/internal/model"
	"github.com/ananyev/craftmarket/internal/notify"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var log zerolog.Logger

type Auth interface {
	Register(ctx context.Context, dto *model.RegisterUserDTO) (string, error)
	Login(ctx context.Context, email, password string) (*model.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, password, newPassword string) error
	ValidateSession(ctx context.Context) error
}

type Review interface {
	Submit(ctx context.Context, authorID string, dto model.SubmitReviewDTO) (*model.SubmitReviewResponse, error)
	ListForVendor(ctx context.Context, vendorID string) (*model.VendorReviewsResponse, error)
}

type Moderation interface {
	ListHeld(ctx context.Context) (*model.HeldReviewsResponse, error)
	Moderate(ctx context.Context, id string, dto model.ModerateReviewDTO) (*model.Review, error)
}

type Contact interface {
	Create(ctx context.Context, senderID string, dto model.CreateContactDTO) (*model.ContactMessage, error)
}

type websocketUpgrader interface {
	Upgrade(w http.ResponseWriter, r *http.Request, responseHeader http.Header) (*websocket.Conn, error)
}

type Server struct {
	srv         *http.Server
	auth        Auth
	review      Review
	moderation  Moderation
	contact     Contact
	hub         *notify.Hub
	wsUpgrader  websocketUpgrader
	wsNewClient func(conn *websocket.Conn, hub *notify.Hub, userID string) *notify.Client
}

func NewServer(addr string, auth Auth, review Review, moderation Moderation, contact Contact, hub *notify.Hub) *Server {
	log = *logger.Log
	log = log.With().Str("name", "http").Logger()

	r := chi.NewRouter()

	s := &Server{
		srv:         &http.Server{Addr: addr, Handler: r},
		auth:        auth,
		review:      review,
		moderation:  moderation,
		contact:     contact,
		hub:         hub,
		wsUpgrader:  &notify.Upgrader,
		wsNewClient: notify.NewClient,
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Post(`/api/v1/auth/register`, s.registerHandler)
		r.Post(`/api/v1/auth/login`, s.loginHandler)
		r.Post(`/api/v1/auth/refreshToken`, s.refreshTokenHandler)

		r.Get(`/api/v1/vendors/{id}/reviews`, s.vendorReviewsHandler)

		r.Handle(`/metrics`, promhttp.Handler())
	})

	r.Group(func(r chi.Router) {
		r.Use(jwt.Authenticator(s.auth))

		r.Post(`/api/v1/auth/changePassword`, s.changePasswordHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(jwt.Authenticator(s.auth))
		r.Use(s.requirePermanentPassword)

		r.Post(`/api/v1/reviews`, s.submitReviewHandler)
		r.Post(`/api/v1/contact`, s.createContactHandler)

		r.With(s.requireModerator).Get(`/api/v1/moderation/reviews`, s.heldReviewsHandler)
		r.With(s.requireModerator).Put(`/api/v1/moderation/reviews/{id}`, s.moderateReviewHandler)

		r.Get(`/api/v1/notifications/ws`, s.notificationsWSHandler)
	})

	r.HandleFunc(`/*`, notFoundHandler)

	return s
}

func (s *Server) Run(ctx context.Context, runner *errgroup.Group) {
	logger.Log.Info().Msg("Http server started.")

	runner.Go(func() error {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Http server stopped.")

	nctx, stop := context.WithTimeout(ctx, time.Second*10)
	defer stop()

	return s.srv.Shutdown(nctx)
}
