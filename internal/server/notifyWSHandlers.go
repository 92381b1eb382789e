package server

import (
	"net/http"

	"github.com/ananyev/craftmarket/internal/lib/jwt"
	"github.com/ananyev/craftmarket/internal/model"
)

func (s *Server) notificationsWSHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(jwt.CtxKeyClaims).(model.UserClaim)
	if !ok {
		UnauthorizedError(w)
		return
	}

	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := s.wsNewClient(conn, s.hub, claims.ID)
	s.hub.Add(client)

	go client.ReadPump()
	go client.WritePump()
}
