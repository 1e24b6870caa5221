package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with sane defaults for this project. WriteTimeout
// leaves room for two OCR calls running at their full per-image timeout.
func New(addr string, handler http.Handler, ocrTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      ocrTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
