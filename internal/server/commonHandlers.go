package server

import (
	"net/http"
)

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	NotFoundError(w)
}
