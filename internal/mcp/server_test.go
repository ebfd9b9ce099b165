package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/agent"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/config"
)

const w2Text = "W-2 Wage and Tax Statement\n" +
	"Employee Name: Jane Smith\n" +
	"Employee SSN: 123-45-6789\n" +
	"Total Income: $45,000.00\n"

func newTestServer(t *testing.T) (*Server, *agent.Agent) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.FormsDirectory = t.TempDir()

	formAgent, err := agent.New(cfg)
	if err != nil {
		t.Fatalf("failed to create agent: %v", err)
	}
	server, err := NewServer(cfg, formAgent)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return server, formAgent
}

func writeForm(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	return path
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	content := result.Content[0]
	if textContent, ok := content.(mcp.TextContent); ok {
		return textContent.Text
	}
	if textContentPtr, ok := content.(*mcp.TextContent); ok {
		return textContentPtr.Text
	}
	t.Fatalf("unexpected content type %T", content)
	return ""
}

func TestNewServer(t *testing.T) {
	server, formAgent := newTestServer(t)

	if server.agent != formAgent {
		t.Error("server agent not set correctly")
	}
	if server.mcpServer == nil {
		t.Error("mcpServer should be initialized")
	}
}

func TestNewServerNilAgent(t *testing.T) {
	if _, err := NewServer(config.DefaultConfig(), nil); err == nil {
		t.Error("expected error for nil agent")
	}
}

func TestHandleFormProcess(t *testing.T) {
	server, formAgent := newTestServer(t)
	path := writeForm(t, "w2.txt", w2Text)

	result, err := server.handleFormProcess(context.Background(), toolRequest(map[string]interface{}{
		"path": path,
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Processed 1 of 1 file(s)") {
		t.Errorf("expected processed count in output, got:\n%s", text)
	}
	if !strings.Contains(text, "Schema: w2") {
		t.Errorf("expected schema line in output, got:\n%s", text)
	}
	if formAgent.Count() != 1 {
		t.Errorf("expected 1 loaded document, got %d", formAgent.Count())
	}
}

func TestHandleFormProcessMultiplePaths(t *testing.T) {
	server, formAgent := newTestServer(t)
	good := writeForm(t, "w2.txt", w2Text)
	missing := filepath.Join(t.TempDir(), "missing.txt")

	result, err := server.handleFormProcess(context.Background(), toolRequest(map[string]interface{}{
		"path": good + ", " + missing,
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Processed 1 of 2 file(s)") {
		t.Errorf("expected partial success summary, got:\n%s", text)
	}
	if !strings.Contains(text, "FAILED "+missing) {
		t.Errorf("expected failure line for missing file, got:\n%s", text)
	}
	if formAgent.Count() != 1 {
		t.Errorf("expected 1 loaded document, got %d", formAgent.Count())
	}
}

func TestHandleFormProcessMissingPath(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handleFormProcess(context.Background(), toolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing path argument")
	}

	result, err = server.handleFormProcess(context.Background(), toolRequest(map[string]interface{}{
		"path": " , ",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for blank path list")
	}
}

func TestHandleFormQuery(t *testing.T) {
	server, formAgent := newTestServer(t)
	path := writeForm(t, "w2.txt", w2Text)
	if _, err := formAgent.LoadForm(context.Background(), path); err != nil {
		t.Fatalf("failed to load form: %v", err)
	}

	result, err := server.handleFormQuery(context.Background(), toolRequest(map[string]interface{}{
		"question": "What is the total income?",
		"path":     path,
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Question: What is the total income?") {
		t.Errorf("expected question echo, got:\n%s", text)
	}
	if !strings.Contains(text, "$45,000.00") {
		t.Errorf("expected income in answer, got:\n%s", text)
	}
	if !strings.Contains(text, "Source fields: Total Income") {
		t.Errorf("expected source fields, got:\n%s", text)
	}
}

func TestHandleFormQueryAllDocuments(t *testing.T) {
	server, formAgent := newTestServer(t)
	path := writeForm(t, "w2.txt", w2Text)
	if _, err := formAgent.LoadForm(context.Background(), path); err != nil {
		t.Fatalf("failed to load form: %v", err)
	}

	// No path means the question runs across every loaded document.
	result, err := server.handleFormQuery(context.Background(), toolRequest(map[string]interface{}{
		"question": "What is the employee name?",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "Jane Smith") {
		t.Errorf("expected employee name in answer, got:\n%s", resultText(t, result))
	}
}

func TestHandleFormQueryNoDocuments(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handleFormQuery(context.Background(), toolRequest(map[string]interface{}{
		"question": "What is the total?",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result when nothing is loaded")
	}
}

func TestHandleFormSummarize(t *testing.T) {
	server, formAgent := newTestServer(t)
	path := writeForm(t, "w2.txt", w2Text)
	if _, err := formAgent.LoadForm(context.Background(), path); err != nil {
		t.Fatalf("failed to load form: %v", err)
	}

	result, err := server.handleFormSummarize(context.Background(), toolRequest(map[string]interface{}{
		"path": path,
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := resultText(t, result)
	if strings.Contains(text, "123-45-6789") {
		t.Error("summary must not expose the raw SSN")
	}
	if !strings.Contains(text, "XXX-XX-6789") {
		t.Errorf("expected masked SSN in summary, got:\n%s", text)
	}

	// Empty path renders the combined report instead.
	result, err = server.handleFormSummarize(context.Background(), toolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !strings.Contains(resultText(t, result), "MULTI-FORM SUMMARY") {
		t.Errorf("expected combined report, got:\n%s", resultText(t, result))
	}
}

func TestHandleFormAnalyze(t *testing.T) {
	server, formAgent := newTestServer(t)
	for _, f := range []struct{ name, income string }{
		{"w2_2022.txt", "$40,000.00"},
		{"w2_2023.txt", "$45,000.00"},
	} {
		text := "W-2 Wage and Tax Statement\nEmployee SSN: 123-45-6789\nTotal Income: " + f.income + "\n"
		if _, err := formAgent.LoadForm(context.Background(), writeForm(t, f.name, text)); err != nil {
			t.Fatalf("failed to load form: %v", err)
		}
	}

	result, err := server.handleFormAnalyze(context.Background(), toolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Analysis of 2 document(s)") {
		t.Errorf("expected document count, got:\n%s", text)
	}
	if !strings.Contains(text, "Schema types: w2") {
		t.Errorf("expected schema types, got:\n%s", text)
	}
	if !strings.Contains(text, "Total Income:") {
		t.Errorf("expected numeric statistics for Total Income, got:\n%s", text)
	}
}

func TestHandleFormCompare(t *testing.T) {
	server, formAgent := newTestServer(t)
	first := writeForm(t, "w2_2022.txt",
		"W-2 Wage and Tax Statement\nEmployee SSN: 123-45-6789\nTotal Income: $40,000.00\n")
	second := writeForm(t, "w2_2023.txt",
		"W-2 Wage and Tax Statement\nEmployee SSN: 123-45-6789\nTotal Income: $45,000.00\n")
	for _, p := range []string{first, second} {
		if _, err := formAgent.LoadForm(context.Background(), p); err != nil {
			t.Fatalf("failed to load form: %v", err)
		}
	}

	result, err := server.handleFormCompare(context.Background(), toolRequest(map[string]interface{}{
		"first":  first,
		"second": second,
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Same schema: true") {
		t.Errorf("expected matching schemas, got:\n%s", text)
	}
	if !strings.Contains(text, "Total Income:") {
		t.Errorf("expected income listed under differing values, got:\n%s", text)
	}
}

func TestHandleFormCompareMissingArguments(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handleFormCompare(context.Background(), toolRequest(map[string]interface{}{
		"first": "only-one.txt",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing second path")
	}
}

func TestHandleFormExport(t *testing.T) {
	server, formAgent := newTestServer(t)
	path := writeForm(t, "w2.txt", w2Text)
	if _, err := formAgent.LoadForm(context.Background(), path); err != nil {
		t.Fatalf("failed to load form: %v", err)
	}

	// Default format is JSON.
	result, err := server.handleFormExport(context.Background(), toolRequest(map[string]interface{}{
		"path": path,
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !strings.Contains(resultText(t, result), `"schema_type": "w2"`) {
		t.Errorf("expected JSON export, got:\n%s", resultText(t, result))
	}

	result, err = server.handleFormExport(context.Background(), toolRequest(map[string]interface{}{
		"path":   path,
		"format": "markdown",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !strings.Contains(resultText(t, result), "## Fields") {
		t.Errorf("expected markdown export, got:\n%s", resultText(t, result))
	}

	result, err = server.handleFormExport(context.Background(), toolRequest(map[string]interface{}{
		"path":   path,
		"format": "yaml",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for unsupported format")
	}
}

func TestHandleFormList(t *testing.T) {
	server, formAgent := newTestServer(t)

	result, err := server.handleFormList(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !strings.Contains(resultText(t, result), "No documents loaded") {
		t.Errorf("expected empty-state message, got:\n%s", resultText(t, result))
	}

	path := writeForm(t, "w2.txt", w2Text)
	if _, err := formAgent.LoadForm(context.Background(), path); err != nil {
		t.Fatalf("failed to load form: %v", err)
	}

	result, err = server.handleFormList(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Loaded documents: 1") {
		t.Errorf("expected document count, got:\n%s", text)
	}
	if !strings.Contains(text, path) {
		t.Errorf("expected document path in listing, got:\n%s", text)
	}
	if !strings.Contains(text, "schema=w2") {
		t.Errorf("expected schema in listing, got:\n%s", text)
	}
}

func TestHandleFormServerInfo(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handleFormServerInfo(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := resultText(t, result)
	for _, tool := range []string{
		"form_process", "form_query", "form_summarize", "form_analyze",
		"form_compare", "form_export", "form_list", "form_server_info",
	} {
		if !strings.Contains(text, tool) {
			t.Errorf("expected tool %q in server info, got:\n%s", tool, text)
		}
	}
	if !strings.Contains(text, "Loaded documents: 0") {
		t.Errorf("expected zero loaded documents, got:\n%s", text)
	}
}

func TestOptionalString(t *testing.T) {
	req := toolRequest(map[string]interface{}{
		"present": "  value  ",
		"number":  42,
	})

	if got := optionalString(req, "present"); got != "value" {
		t.Errorf("expected trimmed value, got %q", got)
	}
	if got := optionalString(req, "number"); got != "" {
		t.Errorf("expected empty string for non-string argument, got %q", got)
	}
	if got := optionalString(req, "absent"); got != "" {
		t.Errorf("expected empty string for absent key, got %q", got)
	}
}
