package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/agent"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/config"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/descriptions"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	agent     *agent.Agent
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, formAgent *agent.Agent) (*Server, error) {
	if formAgent == nil {
		return nil, fmt.Errorf("agent cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		agent:     formAgent,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	formProcessTool := mcp.NewTool(
		"form_process",
		mcp.WithDescription(descriptions.GetToolDescription("form_process")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the form file, or several paths separated by commas"),
		),
	)
	s.mcpServer.AddTool(formProcessTool, s.handleFormProcess)

	formQueryTool := mcp.NewTool(
		"form_query",
		mcp.WithDescription(descriptions.GetToolDescription("form_query")),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Natural-language question about the loaded form(s)"),
		),
		mcp.WithString("path",
			mcp.Description("Path of a loaded document to query (all documents if empty)"),
		),
	)
	s.mcpServer.AddTool(formQueryTool, s.handleFormQuery)

	formSummarizeTool := mcp.NewTool(
		"form_summarize",
		mcp.WithDescription(descriptions.GetToolDescription("form_summarize")),
		mcp.WithString("path",
			mcp.Description("Path of a loaded document to summarize (combined report if empty)"),
		),
	)
	s.mcpServer.AddTool(formSummarizeTool, s.handleFormSummarize)

	formAnalyzeTool := mcp.NewTool(
		"form_analyze",
		mcp.WithDescription(descriptions.GetToolDescription("form_analyze")),
		mcp.WithString("question",
			mcp.Description("Optional question to answer across all loaded documents"),
		),
	)
	s.mcpServer.AddTool(formAnalyzeTool, s.handleFormAnalyze)

	formCompareTool := mcp.NewTool(
		"form_compare",
		mcp.WithDescription(descriptions.GetToolDescription("form_compare")),
		mcp.WithString("first",
			mcp.Required(),
			mcp.Description("Path of the first loaded document"),
		),
		mcp.WithString("second",
			mcp.Required(),
			mcp.Description("Path of the second loaded document"),
		),
	)
	s.mcpServer.AddTool(formCompareTool, s.handleFormCompare)

	formExportTool := mcp.NewTool(
		"form_export",
		mcp.WithDescription(descriptions.GetToolDescription("form_export")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of a loaded document to export"),
		),
		mcp.WithString("format",
			mcp.Description("Export format: json, csv, or markdown (default json)"),
		),
	)
	s.mcpServer.AddTool(formExportTool, s.handleFormExport)

	formListTool := mcp.NewTool(
		"form_list",
		mcp.WithDescription(descriptions.GetToolDescription("form_list")),
	)
	s.mcpServer.AddTool(formListTool, s.handleFormList)

	formServerInfoTool := mcp.NewTool(
		"form_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("form_server_info")),
	)
	s.mcpServer.AddTool(formServerInfoTool, s.handleFormServerInfo)
}

func (s *Server) handleFormProcess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pathArg, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var paths []string
	for _, p := range strings.Split(pathArg, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return mcp.NewToolResultError("path cannot be empty"), nil
	}

	outcomes := s.agent.LoadForms(ctx, paths)
	return mcp.NewToolResultText(s.formatLoadOutcomes(outcomes)), nil
}

func (s *Server) handleFormQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path := optionalString(request, "path")

	var result forms.QueryResult
	if path != "" {
		result, err = s.agent.Ask(ctx, question, path)
	} else {
		result, err = s.agent.AskAll(ctx, question)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatQueryResult(result)), nil
}

func (s *Server) handleFormSummarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := optionalString(request, "path")

	if path == "" {
		report, err := s.agent.SummarizeAll()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(report), nil
	}

	summary, err := s.agent.Summarize(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(summary.FullText), nil
}

func (s *Server) handleFormAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question := optionalString(request, "question")

	result, err := s.agent.Analyze(ctx, question)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.formatAnalysisResult(result)), nil
}

func (s *Server) handleFormCompare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	first, err := request.RequireString("first")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	second, err := request.RequireString("second")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.agent.Compare(first, second)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.formatComparisonResult(first, second, result)), nil
}

func (s *Server) handleFormExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format := optionalString(request, "format")
	if format == "" {
		format = agent.FormatJSON
	}

	rendered, err := s.agent.Export(path, format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(rendered), nil
}

func (s *Server) handleFormList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs := s.agent.Documents()
	if len(docs) == 0 {
		return mcp.NewToolResultText("No documents loaded. Use form_process to load form files."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Loaded documents: %d\n\n", len(docs))
	for _, doc := range docs {
		schemaType := doc.SchemaType
		if schemaType == "" {
			schemaType = "unclassified"
		}
		fmt.Fprintf(&b, "- %s (%s): %d fields, %d tables, schema=%s\n",
			doc.SourceID, doc.FileKind, doc.Fields.Len(), len(doc.Tables), schemaType)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleFormServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	log.Printf("Starting form analyzer MCP server in stdio mode")
	log.Printf("Forms directory: %s", s.config.FormsDirectory)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
