package forms

import "encoding/json"

// QueryResult is the outcome of one question against one or more documents.
type QueryResult struct {
	Question        string   `json:"question"`
	Answer          string   `json:"answer"`
	Confidence      float64  `json:"confidence"`
	SourceFields    []string `json:"source_fields"`
	Context         string   `json:"context"`
	MatchedDocument string   `json:"matched_document,omitempty"`
}

// ToJSON serializes the result as indented JSON.
func (q QueryResult) ToJSON() (string, error) {
	data, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// KeyFact is one named value selected for a summary.
type KeyFact struct {
	Name  string    `json:"name"`
	Value string    `json:"value"`
	Kind  FieldKind `json:"kind"`
}

// Summary is the structured summary of a single document. FullText is a
// rendering of the other members and carries no content of its own.
type Summary struct {
	FormType       string    `json:"form_type"`
	KeyInformation []KeyFact `json:"key_information"`
	Highlights     []string  `json:"highlights"`
	NotableItems   []string  `json:"notable_items"`
	FullText       string    `json:"full_text"`
}

// ToJSON serializes the summary as indented JSON.
func (s Summary) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FieldStats holds per-field numeric statistics across a document set.
type FieldStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
}

// AnalysisResult is the outcome of cross-document analysis.
type AnalysisResult struct {
	DocumentCount   int                   `json:"document_count"`
	CommonFields    []string              `json:"common_fields"`
	SchemaTypes     []string              `json:"schema_types"`
	FieldStatistics map[string]FieldStats `json:"field_statistics"`
	Insights        []string              `json:"insights"`
	Answer          string                `json:"answer,omitempty"`
}

// ToJSON serializes the analysis as indented JSON.
func (a AnalysisResult) ToJSON() (string, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ValuePair holds the two sides of a field difference.
type ValuePair struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// ComparisonResult is the outcome of comparing two documents.
type ComparisonResult struct {
	CommonFields []string             `json:"common_fields"`
	OnlyInFirst  []string             `json:"only_in_first"`
	OnlyInSecond []string             `json:"only_in_second"`
	Differences  map[string]ValuePair `json:"differences"`
	SameSchema   bool                 `json:"same_schema"`
}
