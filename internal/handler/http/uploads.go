package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/phototrack/attendance-backend-go/internal/domain/attendance"
	"github.com/phototrack/attendance-backend-go/internal/handler/http/response"
	"github.com/phototrack/attendance-backend-go/internal/pkg/storage"
)

type UploadHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
}

type uploadHandlerImpl struct {
	storage storage.FileStorage
}

func NewUploadHandler(fileStorage storage.FileStorage) UploadHandler {
	return &uploadHandlerImpl{
		storage: fileStorage,
	}
}

// Get implements UploadHandler. Renditions are flat files, so any path
// separator in the name is an attempt to escape the upload directory.
func (h *uploadHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		response.HandleError(w, attendance.ErrImageNotFound)
		return
	}

	file, err := h.storage.Download(r.Context(), filename)
	if err != nil {
		response.HandleError(w, attendance.ErrImageNotFound)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, file); err != nil {
		// Headers are already out. Nothing left to do but log at the
		// access-log layer.
		return
	}
}
