package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ananyev/craftmarket/internal/lib/jwt"
	"github.com/ananyev/craftmarket/internal/model"
	"github.com/ananyev/craftmarket/internal/services/review"
	"github.com/go-chi/chi"
)

func (s *Server) submitReviewHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := ctx.Value(jwt.CtxKeyClaims).(model.UserClaim)
	if !ok {
		UnauthorizedError(w)
		return
	}

	var dto model.SubmitReviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.Error().Err(err).Msg("Error parsing request body")
		ParsingError(w)
		return
	}

	if errs := dto.Validate(); len(errs) > 0 {
		log.Error().Msgf("Error validating request body: %v", errs)
		ValidationError(w, errs)
		return
	}

	res, err := s.review.Submit(ctx, claims.ID, dto)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrRateLimited):
			RateLimitError(w)
		case errors.Is(err, review.ErrVendorNotFound):
			LogicError(w, ErrVendorNotFound)
		case errors.Is(err, review.ErrSelfReview):
			LogicError(w, ErrSelfReview)
		case errors.Is(err, review.ErrDuplicateReview):
			LogicError(w, ErrDuplicateReview)
		default:
			InternalError(w)
		}
		log.Error().Err(err).Msg("Error submitting review")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
		return
	}
}

func (s *Server) vendorReviewsHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		BadRequestError(w)
		return
	}

	res, err := s.review.ListForVendor(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrVendorNotFound):
			NotFoundError(w)
		default:
			InternalError(w)
			log.Error().Err(err).Msg("Error listing vendor reviews")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
		InternalError(w)
		return
	}
}
