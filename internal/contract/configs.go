package contract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/huangsam/netseries/core/measures"
	"github.com/huangsam/netseries/schema"
)

// Default values for configuration.
const (
	DefaultWorkers        = 1
	DefaultConfidence     = 0.95
	DefaultSampleFloor    = 30
	DefaultMaxSwapRetries = 1000
	DefaultLag            = 1
	DefaultPrecision      = 3
	MaxPrecision          = 6
	MaxPermutations       = 100000
	DefaultMeasure        = "edges"
	DefaultPairwise       = "raw"
	DefaultResolution     = "1 day"
)

// tableNameRe guards table names that are interpolated into SQL.
var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a run.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath string
	Source    schema.SourceBackend
	Table     string
	DBConnect string // Please use env var as this is plaintext

	WindowSize  time.Duration
	WindowShift time.Duration
	Resolution  time.Duration
	StartTime   time.Time // zero means the first event

	Measure      string
	MeasureLevel measures.Level
	Pairwise     string
	Directed     bool
	Lagged       bool
	Lag          int
	FirstNetOnly bool

	Workers        int
	Permutations   int
	Confidence     float64
	Convergence    bool
	SampleFloor    int
	Trim           bool
	RatioIndex     bool
	MaxSwapRetries int
	Seed           uint64

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Progress   bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Source     string `mapstructure:"source"`
	Table      string `mapstructure:"table"`
	DBConnect  string `mapstructure:"db-connect"`
	Size       string `mapstructure:"window-size"`
	Shift      string `mapstructure:"window-shift"`
	Resolution string `mapstructure:"resolution"`
	Start      string `mapstructure:"start"`
	Directed   bool   `mapstructure:"directed"`
	Trim       bool   `mapstructure:"trim"`
	RatioIndex bool   `mapstructure:"ratio-index"`
	Workers    int    `mapstructure:"workers"`
	Precision  int    `mapstructure:"precision"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`
	Progress   bool   `mapstructure:"progress"`

	// --- Fields from extractCmd.Flags() ---
	Measure        string  `mapstructure:"measure"`
	Pairwise       string  `mapstructure:"pairwise"`
	Lagged         bool    `mapstructure:"lagged"`
	Lag            int     `mapstructure:"lag"`
	FirstNetOnly   bool    `mapstructure:"first-net-only"`
	Permutations   int     `mapstructure:"permutations"`
	Confidence     float64 `mapstructure:"confidence"`
	Convergence    bool    `mapstructure:"convergence"`
	SampleFloor    int     `mapstructure:"sample-floor"`
	MaxSwapRetries int     `mapstructure:"max-swap-retries"`
	Seed           uint64  `mapstructure:"seed"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// IsDatabaseSource reports whether events are read through database/sql.
func (c *Config) IsDatabaseSource() bool {
	return c.Source.IsDatabase()
}

// ProcessAndValidate transforms raw input into a validated Config.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSource(cfg, input); err != nil {
		return err
	}
	if err := processWindows(cfg, input); err != nil {
		return err
	}
	if err := processMeasure(cfg, input); err != nil {
		return err
	}
	return processDiagnostics(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.SourceBackend, connStr string) error {
	switch backend {
	case schema.MySQLSource:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s source", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLSource:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s source", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateTableName rejects table names that are unsafe to interpolate into SQL.
func ValidateTableName(name string) error {
	if !tableNameRe.MatchString(name) {
		return fmt.Errorf("invalid table name %q. must match %s", name, tableNameRe.String())
	}
	return nil
}

// ProcessOutput validates only the output settings, for commands that read no events.
func ProcessOutput(cfg *Config, input *ConfigRawInput) error {
	return validateSimpleInputs(cfg, input)
}

// validateSimpleInputs processes and validates fields without cross-field rules.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Directed = input.Directed
	cfg.Trim = input.Trim
	cfg.RatioIndex = input.RatioIndex
	cfg.Progress = input.Progress
	cfg.Seed = input.Seed

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Width Validation ---
	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}

	return nil
}

// processSource resolves where events come from.
func processSource(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = strings.TrimSpace(input.InputPathStr)

	// --- Infer the source from the file extension when unset ---
	source := strings.ToLower(strings.TrimSpace(input.Source))
	if source == "" {
		switch strings.ToLower(filepath.Ext(cfg.InputPath)) {
		case ".parquet":
			source = string(schema.ParquetSource)
		case ".db", ".sqlite", ".sqlite3":
			source = string(schema.SQLiteSource)
		default:
			source = string(schema.CSVSource)
		}
	}
	cfg.Source = schema.SourceBackend(source)
	if _, ok := schema.ValidSourceBackends[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be csv, parquet, sqlite, mysql, postgresql", input.Source)
	}

	// --- File sources need a path ---
	if !cfg.Source.IsDatabase() {
		if cfg.InputPath == "" {
			return fmt.Errorf("an events file is required for %s source", cfg.Source)
		}
		return nil
	}

	// --- Database sources need a table and a connection ---
	cfg.Table = strings.TrimSpace(input.Table)
	if err := ValidateTableName(cfg.Table); err != nil {
		return err
	}
	cfg.DBConnect = input.DBConnect
	if cfg.Source == schema.SQLiteSource && cfg.DBConnect == "" {
		cfg.DBConnect = cfg.InputPath
		if cfg.DBConnect == "" {
			return fmt.Errorf("sqlite source requires a database file or --db-connect")
		}
	}
	return ValidateDatabaseConnectionString(cfg.Source, cfg.DBConnect)
}

// processWindows parses the window size, shift, resolution and start time.
func processWindows(cfg *Config, input *ConfigRawInput) error {
	// --- Window Size ---
	size, err := ParseDuration(input.Size)
	if err != nil {
		return fmt.Errorf("invalid window-size '%s': %w", input.Size, err)
	}
	cfg.WindowSize = size

	// --- Window Shift defaults to tumbling windows ---
	cfg.WindowShift = size
	if strings.TrimSpace(input.Shift) != "" {
		shift, err := ParseDuration(input.Shift)
		if err != nil {
			return fmt.Errorf("invalid window-shift '%s': %w", input.Shift, err)
		}
		cfg.WindowShift = shift
	}

	// --- Resolution may be zero for exact timestamps ---
	cfg.Resolution = 0
	if res := strings.TrimSpace(input.Resolution); res != "" && res != "0" {
		d, err := ParseDuration(res)
		if err != nil {
			return fmt.Errorf("invalid resolution '%s': %w", input.Resolution, err)
		}
		cfg.Resolution = d
	}

	// --- Start Time ---
	cfg.StartTime = time.Time{}
	if strings.TrimSpace(input.Start) != "" {
		t, err := ParseTimestamp(input.Start)
		if err != nil {
			return fmt.Errorf("invalid start '%s': %w", input.Start, err)
		}
		cfg.StartTime = t
	}
	return nil
}

// processMeasure resolves the named measure and the lag settings.
func processMeasure(cfg *Config, input *ConfigRawInput) error {
	cfg.Pairwise = strings.ToLower(strings.TrimSpace(input.Pairwise))
	if cfg.Pairwise == "" {
		cfg.Pairwise = DefaultPairwise
	}
	pw, err := measures.Pairwise(cfg.Pairwise)
	if err != nil {
		return fmt.Errorf("invalid pairwise '%s'. must be one of %s", input.Pairwise, strings.Join(measures.PairwiseNames(), ", "))
	}

	cfg.Measure = strings.ToLower(strings.TrimSpace(input.Measure))
	if cfg.Measure == "" {
		cfg.Measure = DefaultMeasure
	}
	def, err := measures.Lookup(cfg.Measure, pw)
	if err != nil {
		return fmt.Errorf("invalid measure '%s'. must be one of %s", input.Measure, strings.Join(measures.Names(), ", "))
	}
	cfg.MeasureLevel = def.Level

	// A lagged measure implies lagged mode.
	cfg.Lagged = input.Lagged || def.IsLagged()
	if cfg.Lagged && !def.IsLagged() {
		return fmt.Errorf("measure '%s' is not a lagged measure", cfg.Measure)
	}
	cfg.FirstNetOnly = input.FirstNetOnly
	cfg.Lag = 0
	if cfg.Lagged {
		cfg.Lag = input.Lag
		if cfg.Lag == 0 {
			cfg.Lag = DefaultLag
		}
		if cfg.Lag < 0 {
			return fmt.Errorf("lag must be positive (received %d)", input.Lag)
		}
	} else if cfg.FirstNetOnly {
		return fmt.Errorf("first-net-only requires a lagged measure")
	}
	return nil
}

// processDiagnostics validates permutation and convergence settings.
func processDiagnostics(cfg *Config, input *ConfigRawInput) error {
	// --- Permutation Count ---
	if input.Permutations < 0 || input.Permutations > MaxPermutations {
		return fmt.Errorf("permutations must be between 0 and %d (received %d)", MaxPermutations, input.Permutations)
	}
	cfg.Permutations = input.Permutations

	// --- Confidence Level ---
	cfg.Confidence = input.Confidence
	if cfg.Confidence == 0 {
		cfg.Confidence = DefaultConfidence
	}
	if cfg.Confidence <= 0 || cfg.Confidence >= 1 {
		return fmt.Errorf("confidence must be in (0, 1) (received %g)", input.Confidence)
	}

	// --- Convergence Sample Floor ---
	cfg.Convergence = input.Convergence
	cfg.SampleFloor = input.SampleFloor
	if cfg.SampleFloor == 0 {
		cfg.SampleFloor = DefaultSampleFloor
	}
	if cfg.SampleFloor < 0 {
		return fmt.Errorf("sample-floor must be positive (received %d)", input.SampleFloor)
	}

	// --- Swap Retry Budget ---
	cfg.MaxSwapRetries = input.MaxSwapRetries
	if cfg.MaxSwapRetries == 0 {
		cfg.MaxSwapRetries = DefaultMaxSwapRetries
	}
	if cfg.MaxSwapRetries < 0 {
		return fmt.Errorf("max-swap-retries must be positive (received %d)", input.MaxSwapRetries)
	}

	// --- Diagnostics need a scalar, non-lagged measure ---
	if cfg.Permutations == 0 && !cfg.Convergence {
		return nil
	}
	if cfg.Lagged {
		return fmt.Errorf("permutations and convergence are not available for lagged measures")
	}
	if cfg.MeasureLevel != measures.GraphLevel {
		return fmt.Errorf("permutations and convergence require a graph-level measure, '%s' is %s-level", cfg.Measure, cfg.MeasureLevel)
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix == "" {
		return nil
	}
	if strings.HasSuffix(profilePrefix, "/") {
		return fmt.Errorf("profile prefix must name a file, not a directory (received %s)", profilePrefix)
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}
