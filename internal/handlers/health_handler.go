package handlers

import (
	"context"
	"net/http"

	"course_quest/internal/middleware"
)

// Pinger はDB疎通確認用のインターフェースです (*sql.DB が満たします)。
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health はDBへの疎通を確認します
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	if h.db == nil {
		logger.Error("Health check failed: database not configured")
		http.Error(w, "Health check failed", http.StatusInternalServerError)
		return
	}
	if err := h.db.PingContext(r.Context()); err != nil {
		logger.Error("Health check failed: could not ping DB", "error", err)
		http.Error(w, "Health check failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
