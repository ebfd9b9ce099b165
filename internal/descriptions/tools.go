package descriptions

// Tool descriptions with practical examples and use cases

const (
	FormProcessDescription = `Load and parse one or more form documents into structured records.

**When to use:** First step for any analysis. Point it at a PDF, text, CSV, HTML, Markdown, or JSON file and it extracts the text, detects labeled fields with typed values, normalizes any tables, and classifies the form against the schema registry.

**Examples:**
• Load a tax form: "Process w2-2025.pdf"
• Batch load a folder of intake forms before cross-form analysis

**Common workflows:**
1. form_process → form_query to answer questions about a document
2. form_process (several files) → form_analyze for cross-form statistics

**Best practices:** Process related documents in one call; failures on one file never abort the rest of the batch.`

	FormQueryDescription = `Ask a natural-language question about loaded form documents.

**When to use:** You need a specific value ("What is the total income?"), a person ("Who is the policyholder?"), a date, or a yes/no about a checkbox.

**Why it's useful:** Classifies the question intent, retrieves the best evidence from fields, table rows, and raw text, and answers with a confidence score and the source fields used.

**Examples:**
• "What is the patient's date of birth?" against an intake form
• "How much was withheld for federal tax?" across all loaded W-2s

**Best practices:** Omit the path to search every loaded document; the answer names the matching document.`

	FormSummarizeDescription = `Generate a structured summary of a loaded form document.

**When to use:** You want the key facts of a form at a glance: who it concerns, identifying numbers, dates, and amounts, plus notable flags like checked options or low-confidence values.

**Examples:**
• Summarize a loan application before review
• Omit the path for a combined report over every loaded form

**Best practices:** Summaries are schema-aware; process the form first so classification can pick the right key fields.`

	FormAnalyzeDescription = `Run cross-document analysis over all loaded forms.

**When to use:** You have several forms loaded and want shared structure: common fields, schema types, numeric statistics per field, and comparative insights.

**Examples:**
• "Analyze all loaded pay statements" to get income ranges and averages
• Pass a question to get a direct multi-document answer alongside the statistics`

	FormCompareDescription = `Compare two loaded form documents field by field.

**When to use:** You need the differences between two versions of a form, or between two forms of the same type.

**Output:** Common fields, fields unique to each side, differing values pair by pair, and whether both documents matched the same schema.`

	FormExportDescription = `Export a loaded form document as JSON, CSV, or Markdown.

**When to use:** Hand the structured extraction to another system: JSON for full fidelity, CSV for spreadsheet workflows, Markdown for human review.`

	FormListDescription = `List the documents currently loaded, with their schema type and field counts.

**When to use:** Check what is available before querying, or confirm a batch load.`

	FormServerInfoDescription = `Get server information, available tools, loaded document state, and usage guidance.

**When to use:** Start here to discover the tool surface and the recommended processing workflow.`
)

// ToolDescriptions maps tool names to their detailed descriptions
var ToolDescriptions = map[string]string{
	"form_process":     FormProcessDescription,
	"form_query":       FormQueryDescription,
	"form_summarize":   FormSummarizeDescription,
	"form_analyze":     FormAnalyzeDescription,
	"form_compare":     FormCompareDescription,
	"form_export":      FormExportDescription,
	"form_list":        FormListDescription,
	"form_server_info": FormServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
