//go:build !tesseract

package main

import (
	"errors"

	"idverify/internal/ocr"
	"idverify/internal/platform/config"
)

func newTesseractProvider(config.OCRConfig) (ocr.Provider, error) {
	return nil, errors.New("OCR_PROVIDER=tesseract requires a binary built with -tags tesseract")
}
