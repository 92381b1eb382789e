package logger

import (
	"net/http"
	"os"
	"time"

	"github.com/ananyev/craftmarket/pkg/log"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/zerolog"
)

var nop = zerolog.Nop()

// Log is the root logger. Services derive named sub-loggers from it.
// It stays disabled until Initialize replaces it.
var Log = &nop

type Logger struct {
	root zerolog.Logger
}

func Initialize(cfg *log.Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var root zerolog.Logger
	if cfg.Pretty {
		root = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		root = zerolog.New(os.Stderr)
	}
	root = root.Level(level).With().Timestamp().Logger()

	Log = &root

	return &Logger{root: root}, nil
}

func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.root
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("requestId", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
