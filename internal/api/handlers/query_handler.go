package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"docqa/internal/query"
)

type QueryHandler struct {
	engine *query.Engine
	logger *zap.Logger
}

func NewQueryHandler(engine *query.Engine, logger *zap.Logger) *QueryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryHandler{engine: engine, logger: logger}
}

type queryRequest struct {
	Query          string `json:"query"`
	SimilarityTopK int    `json:"similarity_top_k"`
	RerankerTopN   int    `json:"reranker_top_n"`
	MaxSources     int    `json:"max_sources"`
}

type queryResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
	Status   string   `json:"status"`
}

func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query must not be empty", http.StatusBadRequest)
		return
	}

	answer, err := h.engine.Query(r.Context(), req.Query, query.Options{
		SimilarityTopK: req.SimilarityTopK,
		RerankTopN:     req.RerankerTopN,
		MaxSources:     req.MaxSources,
	})
	if err != nil {
		h.logger.Error("query failed", zap.Error(err))
		http.Error(w, fmt.Sprintf("query failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(queryResponse{
		Response: answer.Response,
		Sources:  answer.Sources,
		Status:   "success",
	})
}
