package mcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/agent"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/descriptions"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

func optionalString(request mcp.CallToolRequest, key string) string {
	args := request.GetArguments()
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func (s *Server) formatLoadOutcomes(outcomes []agent.LoadOutcome) string {
	var b strings.Builder
	loaded := 0
	for _, o := range outcomes {
		if o.Err == nil {
			loaded++
		}
	}
	fmt.Fprintf(&b, "Processed %d of %d file(s)\n\n", loaded, len(outcomes))

	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(&b, "FAILED %s: %v\n", o.Path, o.Err)
			continue
		}
		doc := o.Doc
		schemaType := doc.SchemaType
		if schemaType == "" {
			schemaType = "unclassified"
		}
		fmt.Fprintf(&b, "%s\n", o.Path)
		fmt.Fprintf(&b, "  Format: %s\n", doc.FileKind)
		fmt.Fprintf(&b, "  Fields: %d\n", doc.Fields.Len())
		fmt.Fprintf(&b, "  Tables: %d\n", len(doc.Tables))
		fmt.Fprintf(&b, "  Schema: %s", schemaType)
		if doc.SchemaType != "" {
			fmt.Fprintf(&b, " (%.0f%% confidence)", doc.SchemaConfidence*100)
		}
		b.WriteString("\n")
		if s.config.OutputIncludeConfidence {
			fmt.Fprintf(&b, "  Extraction confidence: %.2f\n", doc.ExtractionConfidence)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Server) formatQueryResult(result forms.QueryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", result.Question)
	fmt.Fprintf(&b, "Answer: %s\n", result.Answer)
	if s.config.OutputIncludeConfidence {
		fmt.Fprintf(&b, "Confidence: %.2f\n", result.Confidence)
	}
	if len(result.SourceFields) > 0 {
		fmt.Fprintf(&b, "Source fields: %s\n", strings.Join(result.SourceFields, ", "))
	}
	if result.MatchedDocument != "" {
		fmt.Fprintf(&b, "Matched document: %s\n", result.MatchedDocument)
	}
	return b.String()
}

func (s *Server) formatAnalysisResult(result forms.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analysis of %d document(s)\n\n", result.DocumentCount)

	if len(result.SchemaTypes) > 0 {
		fmt.Fprintf(&b, "Schema types: %s\n", strings.Join(result.SchemaTypes, ", "))
	}
	if len(result.CommonFields) > 0 {
		fmt.Fprintf(&b, "Common fields: %s\n", strings.Join(result.CommonFields, ", "))
	}

	if len(result.FieldStatistics) > 0 {
		b.WriteString("\nNumeric field statistics:\n")
		names := make([]string, 0, len(result.FieldStatistics))
		for name := range result.FieldStatistics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			stats := result.FieldStatistics[name]
			fmt.Fprintf(&b, "  %s: min=%.2f max=%.2f avg=%.2f sum=%.2f (n=%d)\n",
				name, stats.Min, stats.Max, stats.Avg, stats.Sum, stats.Count)
		}
	}

	if len(result.Insights) > 0 {
		b.WriteString("\nInsights:\n")
		for _, insight := range result.Insights {
			fmt.Fprintf(&b, "  - %s\n", insight)
		}
	}

	if result.Answer != "" {
		fmt.Fprintf(&b, "\nAnswer: %s\n", result.Answer)
	}
	return b.String()
}

func (s *Server) formatComparisonResult(first, second string, result forms.ComparisonResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Comparing %s with %s\n\n", first, second)
	fmt.Fprintf(&b, "Same schema: %t\n", result.SameSchema)
	fmt.Fprintf(&b, "Common fields: %d\n", len(result.CommonFields))

	if len(result.OnlyInFirst) > 0 {
		fmt.Fprintf(&b, "Only in first: %s\n", strings.Join(result.OnlyInFirst, ", "))
	}
	if len(result.OnlyInSecond) > 0 {
		fmt.Fprintf(&b, "Only in second: %s\n", strings.Join(result.OnlyInSecond, ", "))
	}

	if len(result.Differences) > 0 {
		b.WriteString("\nDiffering values:\n")
		names := make([]string, 0, len(result.Differences))
		for name := range result.Differences {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			pair := result.Differences[name]
			fmt.Fprintf(&b, "  %s: %q vs %q\n", name, pair.First, pair.Second)
		}
	} else {
		b.WriteString("\nNo differing values among common fields.\n")
	}
	return b.String()
}

func (s *Server) formatServerInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s v%s\n\n", s.config.ServerName, s.config.Version)
	fmt.Fprintf(&b, "Forms directory: %s\n", s.config.FormsDirectory)
	fmt.Fprintf(&b, "Loaded documents: %d\n", s.agent.Count())
	fmt.Fprintf(&b, "Summary style: %s\n\n", s.config.SummaryStyle)

	b.WriteString("Available tools:\n")
	names := descriptions.GetAllToolNames()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  - %s\n", name)
	}

	b.WriteString("\nRecommended workflow:\n")
	b.WriteString("  1. form_process to load one or more form files\n")
	b.WriteString("  2. form_query / form_summarize for single-document answers\n")
	b.WriteString("  3. form_analyze / form_compare once several forms are loaded\n")
	b.WriteString("  4. form_export to hand results to other systems\n")
	return b.String()
}
