package forms

import (
	"encoding/json"
	"time"
)

// FileKind identifies the source format a document was extracted from.
type FileKind string

const (
	FileKindPDF      FileKind = "pdf"
	FileKindImage    FileKind = "image"
	FileKindText     FileKind = "text"
	FileKindJSON     FileKind = "json"
	FileKindCSV      FileKind = "csv"
	FileKindHTML     FileKind = "html"
	FileKindMarkdown FileKind = "markdown"
)

// IsValid checks if the file kind is one of the supported formats.
func (fk FileKind) IsValid() bool {
	switch fk {
	case FileKindPDF, FileKindImage, FileKindText, FileKindJSON,
		FileKindCSV, FileKindHTML, FileKindMarkdown:
		return true
	default:
		return false
	}
}

// FieldKind tags the inferred type of an extracted field value.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindNumber   FieldKind = "number"
	FieldKindCurrency FieldKind = "currency"
	FieldKindDate     FieldKind = "date"
	FieldKindEmail    FieldKind = "email"
	FieldKindPhone    FieldKind = "phone"
	FieldKindSSN      FieldKind = "ssn"
	FieldKindCheckbox FieldKind = "checkbox"
)

// IsNumeric reports whether values of this kind carry a usable number.
func (fk FieldKind) IsNumeric() bool {
	return fk == FieldKindNumber || fk == FieldKindCurrency
}

// FieldValue is the tagged variant stored for every extracted field.
// Raw always holds the matched text; Number is populated for numeric kinds
// and Checked for checkbox kinds. Position is a byte offset into the source
// text, or -1 when the field was not located in the text.
type FieldValue struct {
	Raw        string    `json:"raw"`
	Kind       FieldKind `json:"kind"`
	Number     float64   `json:"number,omitempty"`
	Checked    bool      `json:"checked,omitempty"`
	Confidence float64   `json:"confidence"`
	Position   int       `json:"position"`
}

// Masked returns a privacy-safe rendering of the value. SSN-kind values are
// masked down to the last four digits; everything else passes through.
func (fv FieldValue) Masked() string {
	if fv.Kind == FieldKindSSN {
		digits := digitsOnly(fv.Raw)
		if len(digits) >= 4 {
			return "XXX-XX-" + digits[len(digits)-4:]
		}
	}
	return fv.Raw
}

func digitsOnly(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// FormDocument is the structured record produced from one source file.
// It is immutable once constructed; downstream components only read it.
type FormDocument struct {
	SourceID             string         `json:"source_id"`
	FileKind             FileKind       `json:"file_kind"`
	RawText              string         `json:"raw_text"`
	Fields               *FieldSet      `json:"fields"`
	Tables               []ParsedTable  `json:"tables"`
	Metadata             map[string]any `json:"metadata,omitempty"`
	SchemaType           string         `json:"schema_type,omitempty"`
	SchemaConfidence     float64        `json:"schema_confidence"`
	ExtractionConfidence float64        `json:"extraction_confidence"`
	ProcessedAt          time.Time      `json:"processed_at"`
}

// NewFormDocument creates a document shell with the processing timestamp set.
func NewFormDocument(sourceID string, kind FileKind) *FormDocument {
	return &FormDocument{
		SourceID:    sourceID,
		FileKind:    kind,
		Fields:      NewFieldSet(),
		Metadata:    make(map[string]any),
		ProcessedAt: time.Now().UTC(),
	}
}

// ToJSON serializes the document as indented JSON.
func (d *FormDocument) ToJSON() (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromJSON reconstructs a document previously serialized with ToJSON.
func FromJSON(data []byte) (*FormDocument, error) {
	var doc FormDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Fields == nil {
		doc.Fields = NewFieldSet()
	}
	return &doc, nil
}
