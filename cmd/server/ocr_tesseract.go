//go:build tesseract

package main

import (
	"idverify/internal/ocr"
	"idverify/internal/ocr/tesseract"
	"idverify/internal/platform/config"
)

func newTesseractProvider(cfg config.OCRConfig) (ocr.Provider, error) {
	return tesseract.New(tesseract.WithLanguages(cfg.Languages...)), nil
}
