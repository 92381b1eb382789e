package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ananyev/craftmarket/internal/model"
	"github.com/ananyev/craftmarket/internal/services/moderation"
	"github.com/go-chi/chi"
)

func (s *Server) heldReviewsHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.moderation.ListHeld(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error listing held reviews")
		InternalError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
		InternalError(w)
		return
	}
}

func (s *Server) moderateReviewHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		BadRequestError(w)
		return
	}

	var dto model.ModerateReviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		ParsingError(w)
		return
	}
	if errs := dto.Validate(); len(errs) > 0 {
		ValidationError(w, errs)
		return
	}

	res, err := s.moderation.Moderate(r.Context(), id, dto)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrReviewNotFound):
			LogicError(w, ErrReviewNotFound)
		default:
			InternalError(w)
		}
		log.Error().Err(err).Msg("Error moderating review")
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
		InternalError(w)
		return
	}
}
