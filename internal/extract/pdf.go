package extract

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

const (
	defaultMaxFileSize = 100 * 1024 * 1024
	maxTextSize        = 10 * 1024 * 1024
)

// AcroField is one interactive form field read from a PDF's AcroForm
// dictionary. These carry author-assigned names and typed values, so the
// pipeline trusts them more than pattern-matched text.
type AcroField struct {
	Name       string
	Value      string
	Checked    bool
	IsCheckbox bool
}

// PDFExtractor reads PDF files: plain text per page, page count, and any
// interactive form fields.
type PDFExtractor struct {
	maxFileSize int64
}

// NewPDFExtractor builds a PDF extractor with the default size limit.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{maxFileSize: defaultMaxFileSize}
}

func (e *PDFExtractor) Extract(path string) (*Result, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: path is a directory: %s", forms.ErrInvalidInput, path)
	}
	if info.Size() > e.maxFileSize {
		return nil, fmt.Errorf("%w: file too large: %d bytes (max %d)",
			forms.ErrInvalidInput, info.Size(), e.maxFileSize)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	text := extractTextContent(reader)
	acroFields, _ := readAcroFields(path)

	result := &Result{
		Text: text,
		Kind: forms.FileKindPDF,
		Metadata: map[string]string{
			"pages":      strconv.Itoa(reader.NumPage()),
			"size_bytes": strconv.FormatInt(info.Size(), 10),
		},
	}
	if len(acroFields) > 0 {
		result.Metadata["acro_fields"] = strconv.Itoa(len(acroFields))
		result.AcroFields = acroFields
	}
	return result, nil
}

func extractTextContent(reader *pdf.Reader) string {
	var builder strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Keep going; a single bad page should not lose the document.
			continue
		}
		if builder.Len()+len(content) > maxTextSize {
			remaining := maxTextSize - builder.Len()
			if remaining > 0 {
				builder.WriteString(content[:remaining])
			}
			break
		}
		builder.WriteString(content)
		builder.WriteString("\n")
	}
	return builder.String()
}

// readAcroFields pulls name/value pairs out of the AcroForm dictionary.
// PDFs without interactive fields return an empty slice and no error.
func readAcroFields(path string) ([]AcroField, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}
	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil || acroFormDict == nil {
		return nil, err
	}
	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, nil
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference fields array: %w", err)
	}

	var out []AcroField
	for i, fieldRef := range fieldsArray {
		field, ok := readAcroField(ctx, fieldRef, i)
		if ok {
			out = append(out, field)
		}
	}
	return out, nil
}

func readAcroField(ctx *model.Context, fieldObj types.Object, index int) (AcroField, bool) {
	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil || fieldDict == nil {
		return AcroField{}, false
	}

	field := AcroField{}
	if nameObj, found := fieldDict.Find("T"); found {
		if name, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
			field.Name = name
		}
	}
	if field.Name == "" {
		field.Name = fmt.Sprintf("field_%d", index)
	}

	isCheckbox := false
	if ftObj, found := fieldDict.Find("FT"); found {
		if ftName, err := ctx.DereferenceName(ftObj, model.V10, nil); err == nil && ftName == "Btn" {
			isCheckbox = true
		}
	}
	field.IsCheckbox = isCheckbox

	valueObj, found := fieldDict.Find("V")
	if !found {
		return field, field.Name != ""
	}
	if isCheckbox {
		if name, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
			field.Checked = name == "Yes" || name == "On"
			field.Value = string(name)
		}
	} else {
		if val, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
			field.Value = val
		}
	}
	return field, true
}
