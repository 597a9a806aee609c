package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docqa/internal/ingest"
	"docqa/internal/models"
)

const maxUploadBytes = 64 << 20 // 64 MB

type UploadHandler struct {
	orchestrator *ingest.Orchestrator
	logger       *zap.Logger
}

func NewUploadHandler(orchestrator *ingest.Orchestrator, logger *zap.Logger) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{orchestrator: orchestrator, logger: logger}
}

type uploadResponse struct {
	Status    string              `json:"status"`
	Message   string              `json:"message"`
	Processed int                 `json:"processed"`
	Skipped   int                 `json:"skipped"`
	Failed    int                 `json:"failed"`
	Items     []models.ItemReport `json:"items"`
}

// Upload accepts multipart files plus parallel comma-separated company_names
// and document_names lists, stages each file to a temp path and runs the
// ingestion batch over them.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "no files provided", http.StatusBadRequest)
		return
	}

	companies := splitList(r.FormValue("company_names"))
	documents := splitList(r.FormValue("document_names"))
	if len(companies) != len(files) || len(documents) != len(files) {
		http.Error(w, fmt.Sprintf("got %d files but %d company names and %d document names",
			len(files), len(companies), len(documents)), http.StatusBadRequest)
		return
	}

	stagingDir, err := os.MkdirTemp("", "docqa-upload-")
	if err != nil {
		http.Error(w, fmt.Sprintf("staging failed: %v", err), http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(stagingDir)

	items := make([]ingest.Item, 0, len(files))
	for i, header := range files {
		path, err := stageFile(stagingDir, header)
		if err != nil {
			http.Error(w, fmt.Sprintf("staging %q failed: %v", header.Filename, err), http.StatusInternalServerError)
			return
		}
		items = append(items, ingest.Item{
			Path:         path,
			CompanyName:  companies[i],
			DocumentName: documents[i],
		})
	}

	summary, reports := h.orchestrator.Run(r.Context(), items)

	status := "success"
	if summary.Failed > 0 {
		status = "partial"
		if summary.Failed == summary.Total {
			status = "error"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(uploadResponse{
		Status:    status,
		Message:   ingest.SummaryMessage(summary),
		Processed: summary.Processed,
		Skipped:   summary.Skipped,
		Failed:    summary.Failed,
		Items:     reports,
	})
}

// stageFile copies one uploaded part to disk under a collision-proof name,
// keeping the original extension so the parser registry can route it.
func stageFile(dir string, header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(header.Filename)))
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
