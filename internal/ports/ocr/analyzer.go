package ocr

import (
	"context"
	"errors"
)

var (
	// ErrUpstream: el servicio de análisis falló o no respondió algo usable.
	ErrUpstream = errors.New("document analysis upstream error")
	// ErrNotConfigured: no hay endpoint/clave para el servicio de análisis.
	ErrNotConfigured = errors.New("document analysis not configured")
	// ErrNoDocument: el análisis terminó pero no detectó ningún documento.
	ErrNoDocument = errors.New("no document detected")
	// ErrInvalidResult: el JSON de resultado recibido no tiene la forma esperada.
	ErrInvalidResult = errors.New("invalid analyze result")
)

// Input es la imagen/PDF a analizar.
type Input struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Analyzer envía una imagen al servicio externo y devuelve el mejor documento.
type Analyzer interface {
	Analyze(ctx context.Context, in Input) (Document, error)
	ModelID() string
}

// ResultDecoder convierte un resultado de análisis ya producido (JSON) en Document.
type ResultDecoder interface {
	DecodeResult(raw []byte) (Document, error)
}
