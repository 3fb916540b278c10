package http

import (
	"io"
	"net/http"
	"path"

	"github.com/gorilla/mux"

	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/storage"
)

// ImageHandler serves stored listing images.
type ImageHandler struct {
	images storage.ImageStore
}

func NewImageHandler(images storage.ImageStore) *ImageHandler {
	return &ImageHandler{images: images}
}

func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key, err := storage.CleanKey(mux.Vars(r)["key"])
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "image not found", nil)
		return
	}

	file, err := h.images.Open(r.Context(), key)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch path.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	case ".webp":
		contentType = "image/webp"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("Image stream interrupted", "key", key, "error", err)
	}
}
