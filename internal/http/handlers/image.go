package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxImageSize = 10 << 20

// ImageHandler mimics the image host: multipart uploads are kept in memory
// and served back under /images/{name}.
type ImageHandler struct {
	publicURL string
	preset    string
	logger    *zap.Logger

	mu     sync.RWMutex
	images map[string][]byte
}

// NewImageHandler creates an image handler. An empty preset accepts any
// upload_preset value.
func NewImageHandler(publicURL, preset string, logger *zap.Logger) *ImageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageHandler{
		publicURL: strings.TrimSuffix(publicURL, "/"),
		preset:    preset,
		logger:    logger,
		images:    make(map[string][]byte),
	}
}

// HandleUpload handles POST /image/upload
func (h *ImageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	if h.preset != "" && r.FormValue("upload_preset") != h.preset {
		respondWithError(w, http.StatusBadRequest, "Upload preset not found")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing required parameter - file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	publicID := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	name := publicID + ext

	h.mu.Lock()
	h.images[name] = data
	h.mu.Unlock()

	h.logger.Info("image uploaded", zap.String("public_id", publicID), zap.Int("bytes", len(data)))
	respondJSON(w, http.StatusOK, map[string]any{
		"public_id":  publicID,
		"secure_url": h.publicURL + "/images/" + name,
		"bytes":      len(data),
		"format":     strings.TrimPrefix(ext, "."),
	})
}

// HandleServe handles GET /images/{name}
func (h *ImageHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	h.mu.RLock()
	data, ok := h.images[name]
	h.mu.RUnlock()

	if !ok {
		respondWithError(w, http.StatusNotFound, "image not found")
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
