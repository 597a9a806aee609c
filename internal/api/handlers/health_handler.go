package handlers

import (
	"encoding/json"
	"net/http"

	"docqa/internal/vectorstore"
)

type HealthHandler struct {
	store vectorstore.Store
}

func NewHealthHandler(store vectorstore.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	passages := 0
	if n, err := h.store.Count(r.Context()); err != nil {
		status = "degraded"
	} else {
		passages = n
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   status,
		"passages": passages,
	})
}
