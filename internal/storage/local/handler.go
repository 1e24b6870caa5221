package local

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler serves files under root/{bucket}/{path} when the request carries a valid signature.
type Handler struct {
	root   string
	signer *Signer
	logger *slog.Logger
}

func NewHandler(root string, signer *Signer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{root: root, signer: signer, logger: logger}
}

// Register mounts GET /files/{bucket}/*.
func (h *Handler) Register(r chi.Router) {
	r.Get("/files/{bucket}/*", h.ServeFile)
}

func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	key := chi.URLParam(r, "*")

	if err := h.signer.Verify(bucket, key, r.URL.Query().Get("exp"), r.URL.Query().Get("sig")); err != nil {
		h.logger.WarnContext(r.Context(), "rejected file request", "bucket", bucket, "error", err)
		status := http.StatusForbidden
		if errors.Is(err, ErrExpired) {
			status = http.StatusGone
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	full, ok := h.resolve(bucket, key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, full)
}

// resolve joins root, bucket, and key, refusing anything that escapes root.
func (h *Handler) resolve(bucket, key string) (string, bool) {
	root, err := filepath.Abs(h.root)
	if err != nil {
		return "", false
	}
	full := filepath.Join(root, filepath.FromSlash(bucket), filepath.FromSlash(key))
	if !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}
