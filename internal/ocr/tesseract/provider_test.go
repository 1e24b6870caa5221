//go:build tesseract

package tesseract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idverify/internal/ocr"
)

func TestFetchFailures(t *testing.T) {
	t.Run("missing object is a storage failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		_, err := New().Recognize(context.Background(), srv.URL+"/front.jpg")
		require.Error(t, err)
		assert.Equal(t, ocr.ErrorStorage, ocr.GetCategory(err))
	})

	t.Run("empty body is bad data", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
		defer srv.Close()

		_, err := New().Recognize(context.Background(), srv.URL+"/front.jpg")
		require.Error(t, err)
		assert.Equal(t, ocr.ErrorBadData, ocr.GetCategory(err))
	})
}
