package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Summary style constants
	StyleBulletPoints = "bullet_points"
	StyleNarrative    = "narrative"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the form analyzer
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document configuration
	FormsDirectory string
	MaxFileSize    int64 // Maximum input file size in bytes

	// Extraction configuration
	OCRConfidenceThreshold float64
	ExtractTables          bool

	// Field parsing configuration
	FieldConfidenceThreshold float64

	// Schema configuration
	SchemaRegistryPath string // optional JSON file with additional schema definitions

	// QA / retrieval configuration
	QATopKRetrieval    int
	QAMaxContextLength int
	SemanticWeight     float64
	KeywordWeight      float64
	TextWindowSize     int
	TextWindowOverlap  int

	// Summarization configuration
	SummaryMaxLength int
	SummaryMinLength int
	SummaryStyle     string

	// Output configuration
	OutputIncludeConfidence bool

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:                     ModeStdio, // Default to stdio mode for MCP compatibility
		Host:                     DefaultHost,
		Port:                     DefaultPort,
		FormsDirectory:           currentDir,
		MaxFileSize:              DefaultMaxFileSize,
		OCRConfidenceThreshold:   0.7,
		ExtractTables:            true,
		FieldConfidenceThreshold: 0.3,
		QATopKRetrieval:          5,
		QAMaxContextLength:       512,
		SemanticWeight:           0.7,
		KeywordWeight:            0.3,
		TextWindowSize:           300,
		TextWindowOverlap:        50,
		SummaryMaxLength:         500,
		SummaryMinLength:         100,
		SummaryStyle:             StyleBulletPoints,
		OutputIncludeConfidence:  true,
		Version:                  "1.0.0",
		ServerName:               "form-analyzer",
		LogLevel:                 DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.FormsDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.FormsDirectory); err == nil {
			cfg.FormsDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("FORM_ANALYZER")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.FormsDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("ocrconfidence", cfg.OCRConfidenceThreshold)
	viper.SetDefault("extracttables", cfg.ExtractTables)
	viper.SetDefault("fieldconfidence", cfg.FieldConfidenceThreshold)
	viper.SetDefault("schemaregistry", cfg.SchemaRegistryPath)
	viper.SetDefault("topk", cfg.QATopKRetrieval)
	viper.SetDefault("maxcontext", cfg.QAMaxContextLength)
	viper.SetDefault("semanticweight", cfg.SemanticWeight)
	viper.SetDefault("keywordweight", cfg.KeywordWeight)
	viper.SetDefault("windowsize", cfg.TextWindowSize)
	viper.SetDefault("windowoverlap", cfg.TextWindowOverlap)
	viper.SetDefault("summarymax", cfg.SummaryMaxLength)
	viper.SetDefault("summarymin", cfg.SummaryMinLength)
	viper.SetDefault("summarystyle", cfg.SummaryStyle)
	viper.SetDefault("includeconfidence", cfg.OutputIncludeConfidence)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.FormsDirectory, "Directory containing form files")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum input file size in bytes")
	pflag.Float64("ocrconfidence", cfg.OCRConfidenceThreshold, "Minimum OCR confidence accepted from upstream extraction")
	pflag.Bool("extracttables", cfg.ExtractTables, "Extract table grids from source files")
	pflag.Float64("fieldconfidence", cfg.FieldConfidenceThreshold, "Minimum confidence for a parsed field to be kept")
	pflag.String("schemaregistry", cfg.SchemaRegistryPath, "Path to a JSON file with additional schema definitions")
	pflag.Int("topk", cfg.QATopKRetrieval, "Number of context chunks retrieved per question")
	pflag.Int("maxcontext", cfg.QAMaxContextLength, "Maximum answer context length in characters")
	pflag.Float64("semanticweight", cfg.SemanticWeight, "Weight of semantic similarity in retrieval scoring")
	pflag.Float64("keywordweight", cfg.KeywordWeight, "Weight of keyword overlap in retrieval scoring")
	pflag.Int("windowsize", cfg.TextWindowSize, "Raw-text retrieval window size in characters")
	pflag.Int("windowoverlap", cfg.TextWindowOverlap, "Overlap between consecutive text windows in characters")
	pflag.Int("summarymax", cfg.SummaryMaxLength, "Maximum summary length in characters")
	pflag.Int("summarymin", cfg.SummaryMinLength, "Minimum summary length in characters")
	pflag.String("summarystyle", cfg.SummaryStyle, "Summary rendering style: 'bullet_points' or 'narrative'")
	pflag.Bool("includeconfidence", cfg.OutputIncludeConfidence, "Include confidence scores in exported output")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "loglevel", "maxfilesize",
		"ocrconfidence", "extracttables", "fieldconfidence", "schemaregistry",
		"topk", "maxcontext", "semanticweight", "keywordweight",
		"windowsize", "windowoverlap", "summarymax", "summarymin",
		"summarystyle", "includeconfidence",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nForm Analyzer - an MCP server for structured form understanding\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/forms             # stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --summarystyle=narrative        # narrative summaries\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FORM_ANALYZER_MODE          Server mode\n")
		fmt.Fprintf(os.Stderr, "  FORM_ANALYZER_DIR           Forms directory\n")
		fmt.Fprintf(os.Stderr, "  FORM_ANALYZER_LOGLEVEL      Log level\n")
		fmt.Fprintf(os.Stderr, "  FORM_ANALYZER_TOPK          Retrieval top-K\n")
		fmt.Fprintf(os.Stderr, "  FORM_ANALYZER_SUMMARYSTYLE  Summary style\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.FormsDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.OCRConfidenceThreshold = viper.GetFloat64("ocrconfidence")
	cfg.ExtractTables = viper.GetBool("extracttables")
	cfg.FieldConfidenceThreshold = viper.GetFloat64("fieldconfidence")
	cfg.SchemaRegistryPath = viper.GetString("schemaregistry")
	cfg.QATopKRetrieval = viper.GetInt("topk")
	cfg.QAMaxContextLength = viper.GetInt("maxcontext")
	cfg.SemanticWeight = viper.GetFloat64("semanticweight")
	cfg.KeywordWeight = viper.GetFloat64("keywordweight")
	cfg.TextWindowSize = viper.GetInt("windowsize")
	cfg.TextWindowOverlap = viper.GetInt("windowoverlap")
	cfg.SummaryMaxLength = viper.GetInt("summarymax")
	cfg.SummaryMinLength = viper.GetInt("summarymin")
	cfg.SummaryStyle = viper.GetString("summarystyle")
	cfg.OutputIncludeConfidence = viper.GetBool("includeconfidence")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.FormsDirectory == "" {
		return errors.New("forms directory cannot be empty")
	}

	if _, err := os.Stat(c.FormsDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.FormsDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create forms directory %s: %w", c.FormsDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access forms directory %s: %w", c.FormsDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.OCRConfidenceThreshold < 0 || c.OCRConfidenceThreshold > 1 {
		return errors.New("OCR confidence threshold must be between 0 and 1")
	}

	if c.FieldConfidenceThreshold < 0 || c.FieldConfidenceThreshold > 1 {
		return errors.New("field confidence threshold must be between 0 and 1")
	}

	if c.QATopKRetrieval < 1 {
		return errors.New("retrieval top-K must be at least 1")
	}

	if c.QAMaxContextLength < 1 {
		return errors.New("maximum context length must be positive")
	}

	if c.SemanticWeight < 0 || c.KeywordWeight < 0 {
		return errors.New("retrieval weights cannot be negative")
	}

	if c.SemanticWeight+c.KeywordWeight == 0 {
		return errors.New("at least one retrieval weight must be positive")
	}

	if c.TextWindowSize < 1 {
		return errors.New("text window size must be positive")
	}

	if c.TextWindowOverlap < 0 || c.TextWindowOverlap >= c.TextWindowSize {
		return errors.New("text window overlap must be non-negative and smaller than the window size")
	}

	if c.SummaryMinLength < 0 || c.SummaryMaxLength < c.SummaryMinLength {
		return errors.New("summary max length must be at least the min length")
	}

	if c.SummaryStyle != StyleBulletPoints && c.SummaryStyle != StyleNarrative {
		return fmt.Errorf("invalid summary style: %s (must be '%s' or '%s')",
			c.SummaryStyle, StyleBulletPoints, StyleNarrative)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, FormsDirectory: %s, LogLevel: %s, TopK: %d, SummaryStyle: %s}",
		c.Mode, c.FormsDirectory, c.LogLevel, c.QATopKRetrieval, c.SummaryStyle)
}
