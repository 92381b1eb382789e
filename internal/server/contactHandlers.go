package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ananyev/craftmarket/internal/lib/jwt"
	"github.com/ananyev/craftmarket/internal/model"
	"github.com/ananyev/craftmarket/internal/services/contact"
)

func (s *Server) createContactHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := ctx.Value(jwt.CtxKeyClaims).(model.UserClaim)
	if !ok {
		UnauthorizedError(w)
		return
	}

	var dto model.CreateContactDTO
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

	res, err := s.contact.Create(ctx, claims.ID, dto)
	if err != nil {
		switch {
		case errors.Is(err, contact.ErrVendorNotFound):
			LogicError(w, ErrVendorNotFound)
		case errors.Is(err, contact.ErrContentRejected):
			LogicError(w, ErrContentRejected)
		case errors.Is(err, contact.ErrDisposableEmail):
			LogicError(w, ErrDisposableEmail)
		default:
			InternalError(w)
		}
		log.Error().Err(err).Msg("Error creating contact message")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
		return
	}
}
