package forms

import (
	"encoding/json"
	"testing"
)

func TestFieldSetOrderAndLookup(t *testing.T) {
	fs := NewFieldSet()
	fs.Set("Employee Name", FieldValue{Raw: "John Doe", Kind: FieldKindText, Confidence: 0.9})
	fs.Set("SSN", FieldValue{Raw: "123-45-6789", Kind: FieldKindSSN, Confidence: 0.85})
	fs.Set("Wages", FieldValue{Raw: "$45,000.00", Kind: FieldKindCurrency, Number: 45000, Confidence: 0.8})

	names := fs.Names()
	want := []string{"Employee Name", "SSN", "Wages"}
	if len(names) != len(want) {
		t.Fatalf("Names() returned %d names, want %d", len(names), len(want))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], name)
		}
	}

	v, ok := fs.Get("ssn")
	if !ok {
		t.Fatal("Get should match names case-insensitively")
	}
	if v.Raw != "123-45-6789" {
		t.Errorf("Get(ssn).Raw = %q, want 123-45-6789", v.Raw)
	}

	if _, ok := fs.Get("missing"); ok {
		t.Error("Get should report absence for unknown names")
	}
}

func TestFieldSetHigherConfidenceWins(t *testing.T) {
	fs := NewFieldSet()
	fs.Set("Total Income", FieldValue{Raw: "unknown", Kind: FieldKindText, Confidence: 0.4})
	fs.Set("total income", FieldValue{Raw: "$45,000.00", Kind: FieldKindCurrency, Number: 45000, Confidence: 0.9})

	if fs.Len() != 1 {
		t.Fatalf("Len() = %d after re-adding the same name, want 1", fs.Len())
	}

	v, _ := fs.Get("Total Income")
	if v.Raw != "$45,000.00" {
		t.Errorf("higher-confidence value should win, got %q", v.Raw)
	}

	// A weaker later value must not replace it.
	fs.Set("Total Income", FieldValue{Raw: "n/a", Kind: FieldKindText, Confidence: 0.2})
	v, _ = fs.Get("total income")
	if v.Raw != "$45,000.00" {
		t.Errorf("lower-confidence value overwrote a stronger one: %q", v.Raw)
	}

	// The first spelling stays the display name.
	if names := fs.Names(); names[0] != "Total Income" {
		t.Errorf("display name = %q, want first spelling", names[0])
	}
}

func TestFieldSetJSONRoundTrip(t *testing.T) {
	fs := NewFieldSet()
	fs.Set("Name", FieldValue{Raw: "Jane", Kind: FieldKindText, Confidence: 0.9, Position: 0})
	fs.Set("Date", FieldValue{Raw: "01/15/2024", Kind: FieldKindDate, Confidence: 0.8, Position: 12})
	fs.Set("Subscribe", FieldValue{Raw: "checked", Kind: FieldKindCheckbox, Checked: true, Confidence: 0.7, Position: 30})

	data, err := json.Marshal(fs)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded FieldSet
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.Len() != fs.Len() {
		t.Fatalf("round trip changed length: %d != %d", decoded.Len(), fs.Len())
	}
	for i, name := range fs.Names() {
		if decoded.Names()[i] != name {
			t.Errorf("round trip reordered fields: %q at %d", decoded.Names()[i], i)
		}
	}

	v, ok := decoded.Get("Subscribe")
	if !ok || !v.Checked {
		t.Error("checkbox state lost in round trip")
	}
}

func TestFieldSetRangeStopsEarly(t *testing.T) {
	fs := NewFieldSet()
	fs.Set("A", FieldValue{Raw: "1"})
	fs.Set("B", FieldValue{Raw: "2"})
	fs.Set("C", FieldValue{Raw: "3"})

	seen := 0
	fs.Range(func(name string, _ FieldValue) bool {
		seen++
		return seen < 2
	})
	if seen != 2 {
		t.Errorf("Range visited %d fields after early stop, want 2", seen)
	}
}

func TestFieldSetIgnoresBlankNames(t *testing.T) {
	fs := NewFieldSet()
	fs.Set("   ", FieldValue{Raw: "x"})
	fs.Set("", FieldValue{Raw: "y"})
	if fs.Len() != 0 {
		t.Errorf("blank names should be dropped, got %d fields", fs.Len())
	}
}

func TestFieldSetClone(t *testing.T) {
	fs := NewFieldSet()
	fs.Set("Name", FieldValue{Raw: "Jane", Confidence: 0.9})

	clone := fs.Clone()
	clone.Set("Extra", FieldValue{Raw: "added", Confidence: 0.5})

	if fs.Len() != 1 {
		t.Errorf("mutating a clone changed the original: %d fields", fs.Len())
	}
	if clone.Len() != 2 {
		t.Errorf("clone should have 2 fields, got %d", clone.Len())
	}
}
