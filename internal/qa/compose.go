package qa

import (
	"fmt"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/retrieval"
)

var personFieldTerms = []string{
	"name", "applicant", "employee", "patient", "customer", "client",
	"owner", "borrower", "student",
}

var placeFieldTerms = []string{
	"address", "location", "city", "state", "zip", "street",
}

// compose builds an answer from ranked evidence. It returns the answer
// text, a raw confidence (caller clamps), and the names of fields used.
func compose(intent Intent, question string, chunks []retrieval.Chunk, docs map[string]*forms.FormDocument) (string, float64, []string) {
	switch intent {
	case IntentNumeric:
		return composeNumeric(question, chunks, docs)
	case IntentWho:
		return composeByFieldName(chunks, docs, personFieldTerms)
	case IntentWhere:
		return composeByFieldName(chunks, docs, placeFieldTerms)
	case IntentWhen:
		return composeWhen(chunks, docs)
	case IntentYesNo:
		return composeYesNo(chunks, docs)
	case IntentList:
		return composeList(chunks)
	case IntentWhatIs:
		return composeWhatIs(question, chunks, docs)
	default:
		return composeGeneric(chunks)
	}
}

func composeNumeric(question string, chunks []retrieval.Chunk, docs map[string]*forms.FormDocument) (string, float64, []string) {
	wantTotal := strings.Contains(strings.ToLower(question), "total")

	numeric := func(name string, v forms.FieldValue) bool { return v.Kind.IsNumeric() }
	if wantTotal {
		chunk, value, ok := pickField(chunks, docs, func(name string, v forms.FieldValue) bool {
			return v.Kind.IsNumeric() && strings.Contains(strings.ToLower(name), "total")
		})
		if ok {
			return fieldAnswer(chunk.FieldName, value), chunk.Score * value.Confidence, []string{chunk.FieldName}
		}
	}
	if chunk, value, ok := pickField(chunks, docs, numeric); ok {
		return fieldAnswer(chunk.FieldName, value), chunk.Score * value.Confidence, []string{chunk.FieldName}
	}
	return composeGeneric(chunks)
}

func composeByFieldName(chunks []retrieval.Chunk, docs map[string]*forms.FormDocument, terms []string) (string, float64, []string) {
	chunk, value, ok := pickField(chunks, docs, func(name string, _ forms.FieldValue) bool {
		lower := strings.ToLower(name)
		for _, t := range terms {
			if strings.Contains(lower, t) {
				return true
			}
		}
		return false
	})
	if ok {
		return fieldAnswer(chunk.FieldName, value), chunk.Score * value.Confidence, []string{chunk.FieldName}
	}
	return composeGeneric(chunks)
}

func composeWhen(chunks []retrieval.Chunk, docs map[string]*forms.FormDocument) (string, float64, []string) {
	chunk, value, ok := pickField(chunks, docs, func(name string, v forms.FieldValue) bool {
		return v.Kind == forms.FieldKindDate || strings.Contains(strings.ToLower(name), "date")
	})
	if ok {
		return fieldAnswer(chunk.FieldName, value), chunk.Score * value.Confidence, []string{chunk.FieldName}
	}
	return composeGeneric(chunks)
}

func composeYesNo(chunks []retrieval.Chunk, docs map[string]*forms.FormDocument) (string, float64, []string) {
	chunk, value, ok := pickField(chunks, docs, func(_ string, v forms.FieldValue) bool {
		return v.Kind == forms.FieldKindCheckbox
	})
	if ok {
		answer := fmt.Sprintf("No, %q is not checked.", chunk.FieldName)
		if value.Checked {
			answer = fmt.Sprintf("Yes, %q is checked.", chunk.FieldName)
		}
		return answer, chunk.Score * value.Confidence, []string{chunk.FieldName}
	}
	return composeGeneric(chunks)
}

func composeList(chunks []retrieval.Chunk) (string, float64, []string) {
	var items []string
	var fields []string
	var top float64
	for _, c := range chunks {
		if c.Source != retrieval.SourceField {
			continue
		}
		items = append(items, c.Text)
		fields = append(fields, c.FieldName)
		if c.Score > top {
			top = c.Score
		}
	}
	if len(items) == 0 {
		return composeGeneric(chunks)
	}
	return strings.Join(items, "; "), top, fields
}

func composeWhatIs(question string, chunks []retrieval.Chunk, docs map[string]*forms.FormDocument) (string, float64, []string) {
	subject := questionSubject(question)
	if subject != "" {
		chunk, value, ok := pickField(chunks, docs, func(name string, _ forms.FieldValue) bool {
			lower := strings.ToLower(name)
			return strings.Contains(lower, subject) || strings.Contains(subject, lower)
		})
		if ok {
			return fieldAnswer(chunk.FieldName, value), chunk.Score * value.Confidence, []string{chunk.FieldName}
		}
	}
	// Any field evidence beats raw text for a what-is question.
	if chunk, value, ok := pickField(chunks, docs, nil); ok {
		return fieldAnswer(chunk.FieldName, value), chunk.Score * value.Confidence, []string{chunk.FieldName}
	}
	return composeGeneric(chunks)
}

func composeGeneric(chunks []retrieval.Chunk) (string, float64, []string) {
	if len(chunks) == 0 {
		return NoEvidenceAnswer, 0, nil
	}
	best := chunks[0]
	return "Based on the form: " + best.Text, best.Score, nil
}

// pickField walks the ranked chunks and returns the first field chunk
// passing pred (nil pred accepts any field).
func pickField(chunks []retrieval.Chunk, docs map[string]*forms.FormDocument, pred func(string, forms.FieldValue) bool) (retrieval.Chunk, forms.FieldValue, bool) {
	for _, c := range chunks {
		if c.Source != retrieval.SourceField {
			continue
		}
		doc := docs[c.DocID]
		if doc == nil || doc.Fields == nil {
			continue
		}
		value, ok := doc.Fields.Get(c.FieldName)
		if !ok {
			continue
		}
		if pred == nil || pred(c.FieldName, value) {
			return c, value, true
		}
	}
	return retrieval.Chunk{}, forms.FieldValue{}, false
}

func fieldAnswer(name string, value forms.FieldValue) string {
	return fmt.Sprintf("The %s is %s.", name, value.Raw)
}
