package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// detail is the error body understood by the client: {"detail": "..."}.
type detail struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detail{Detail: msg})
}

func internalError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	if log != nil {
		log.Error("request failed", zap.String("op", op), zap.Error(err))
	}
	writeDetail(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
