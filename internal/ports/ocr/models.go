package ocr

import "strings"

// Field es un valor extraído por el servicio de análisis: texto + confianza opcional.
// Los campos de tipo tabla traen sus filas en Rows.
type Field struct {
	Content    string
	Confidence *float64
	Rows       []Row
}

// HasContent indica si el campo trae texto utilizable.
func (f Field) HasContent() bool {
	return strings.TrimSpace(f.Content) != ""
}

// Row es una fila de tabla: etiqueta de columna -> celda.
type Row map[string]Field

// Cell devuelve la celda de la columna indicada (coincidencia exacta).
func (r Row) Cell(label string) (Field, bool) {
	if r == nil {
		return Field{}, false
	}
	f, ok := r[label]
	return f, ok
}

// Document es el mejor documento devuelto por el análisis (documents[0]).
type Document struct {
	DocType string
	Fields  map[string]Field
}

// Field devuelve el campo si existe en el documento.
func (d Document) Field(name string) (Field, bool) {
	if d.Fields == nil {
		return Field{}, false
	}
	f, ok := d.Fields[name]
	return f, ok
}

// Text devuelve el contenido del campo solo si existe y no está vacío.
// Un campo ausente y uno vacío se tratan igual.
func (d Document) Text(name string) (string, bool) {
	f, ok := d.Field(name)
	if !ok || !f.HasContent() {
		return "", false
	}
	return f.Content, true
}

// Table devuelve las filas de un campo tabla (nil si no existe).
func (d Document) Table(name string) []Row {
	f, ok := d.Field(name)
	if !ok {
		return nil
	}
	return f.Rows
}
