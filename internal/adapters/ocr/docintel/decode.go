package docintel

import (
	"encoding/json"
	"fmt"
	"strings"

	"sintrom-ocr/internal/ports/ocr"
)

// Estados de la operación de análisis (analyzeResults/{id}).
const (
	statusNotStarted = "notstarted"
	statusRunning    = "running"
	statusSucceeded  = "succeeded"
	statusFailed     = "failed"
	statusCanceled   = "canceled"
)

type analyzeOperation struct {
	Status        string         `json:"status"`
	Error         *apiError      `json:"error,omitempty"`
	AnalyzeResult *analyzeResult `json:"analyzeResult,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type analyzeResult struct {
	APIVersion string     `json:"apiVersion"`
	ModelID    string     `json:"modelId"`
	Documents  []document `json:"documents"`
}

type document struct {
	DocType    string            `json:"docType"`
	Fields     map[string]*field `json:"fields"`
	Confidence *float64          `json:"confidence"`
}

// field cubre los tipos que usa el modelo: string (content), array de object (tablas).
type field struct {
	Type        string            `json:"type"`
	Content     string            `json:"content"`
	Confidence  *float64          `json:"confidence"`
	ValueArray  []field           `json:"valueArray"`
	ValueObject map[string]*field `json:"valueObject"`
}

// Decode valida el JSON contra el esquema y devuelve documents[0].
// Acepta tanto la respuesta completa de la operación como el analyzeResult suelto.
func Decode(raw []byte) (ocr.Document, error) {
	if err := validateResult(raw); err != nil {
		return ocr.Document{}, fmt.Errorf("%w: %v", ocr.ErrInvalidResult, err)
	}

	var probe struct {
		analyzeOperation
		Documents []document `json:"documents"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ocr.Document{}, fmt.Errorf("%w: %v", ocr.ErrInvalidResult, err)
	}

	if probe.AnalyzeResult == nil {
		return firstDocument(&analyzeResult{Documents: probe.Documents})
	}
	op := probe.analyzeOperation
	if s := strings.ToLower(op.Status); s == statusFailed || s == statusCanceled {
		return ocr.Document{}, operationError(op)
	}
	return firstDocument(op.AnalyzeResult)
}

func firstDocument(res *analyzeResult) (ocr.Document, error) {
	if res == nil || len(res.Documents) == 0 {
		return ocr.Document{}, ocr.ErrNoDocument
	}
	return toDocument(res.Documents[0]), nil
}

func toDocument(d document) ocr.Document {
	out := ocr.Document{
		DocType: d.DocType,
		Fields:  make(map[string]ocr.Field, len(d.Fields)),
	}
	for name, f := range d.Fields {
		if f == nil {
			continue
		}
		out.Fields[name] = toField(*f)
	}
	return out
}

func toField(f field) ocr.Field {
	of := ocr.Field{
		Content:    f.Content,
		Confidence: f.Confidence,
	}
	if len(f.ValueArray) == 0 {
		return of
	}
	of.Rows = make([]ocr.Row, 0, len(f.ValueArray))
	for _, item := range f.ValueArray {
		// Filas sin valueObject se ignoran; sólo las tablas traen columnas.
		if len(item.ValueObject) == 0 {
			continue
		}
		row := make(ocr.Row, len(item.ValueObject))
		for label, cell := range item.ValueObject {
			if cell == nil {
				continue
			}
			row[label] = ocr.Field{Content: cell.Content, Confidence: cell.Confidence}
		}
		of.Rows = append(of.Rows, row)
	}
	return of
}

func operationError(op analyzeOperation) error {
	if op.Error != nil {
		return fmt.Errorf("%w: analysis %s: %s: %s", ocr.ErrUpstream, op.Status, op.Error.Code, op.Error.Message)
	}
	return fmt.Errorf("%w: analysis %s", ocr.ErrUpstream, op.Status)
}
