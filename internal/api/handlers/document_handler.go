package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"docqa/internal/models"
	"docqa/internal/vectorstore"
)

type DocumentHandler struct {
	store  vectorstore.Store
	logger *zap.Logger
}

func NewDocumentHandler(store vectorstore.Store, logger *zap.Logger) *DocumentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentHandler{store: store, logger: logger}
}

type documentsResponse struct {
	Documents []models.DocumentInfo `json:"documents"`
	Count     int                   `json:"count"`
}

// ListDocuments returns the unique (company, document) pairs currently in the
// vector store.
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.ListDocuments(r.Context())
	if err != nil {
		h.logger.Error("list documents failed", zap.Error(err))
		http.Error(w, fmt.Sprintf("list documents failed: %v", err), http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []models.DocumentInfo{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(documentsResponse{Documents: docs, Count: len(docs)})
}
