package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// SourceBackend represents where the event log is read from.
	SourceBackend string

	// DiagnosticKind represents the category of a non-fatal diagnostic.
	DiagnosticKind string

	// ValueKind represents the shape of a measure value.
	ValueKind string

	// Stage names a phase of a run for progress reporting.
	Stage string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All event sources supported.
const (
	CSVSource        SourceBackend = "csv" // default
	ParquetSource    SourceBackend = "parquet"
	SQLiteSource     SourceBackend = "sqlite"
	MySQLSource      SourceBackend = "mysql"
	PostgreSQLSource SourceBackend = "postgresql"
)

// Diagnostic kinds raised during a run.
const (
	ConfigurationWarning          DiagnosticKind = "configuration"
	UnsupportedCombinationWarning DiagnosticKind = "unsupported_combination"
)

// Measure value shapes.
const (
	MissingKind ValueKind = "missing"
	ScalarKind  ValueKind = "scalar"
	NodeKind    ValueKind = "node"
	PairKind    ValueKind = "pair"
)

// Run stages reported to observers.
const (
	ExtractStage  Stage = "extract"
	MeasureStage  Stage = "measure"
	PermuteStage  Stage = "permute"
	ConvergeStage Stage = "converge"
)

// Column names used by the result table. Measure columns come first and are
// expanded per node or pair for keyed measures.
const (
	MeasureColumn     = "measure"
	CILowColumn       = "CI.low"
	CIHighColumn      = "CI.high"
	EventCountColumn  = "eventCount"
	WindowStartColumn = "windowStart"
	WindowEndColumn   = "windowEnd"
	ConvergenceColumn = "convergence"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidSourceBackends lists all valid event sources.
var ValidSourceBackends = map[SourceBackend]struct{}{
	CSVSource:        {},
	ParquetSource:    {},
	SQLiteSource:     {},
	MySQLSource:      {},
	PostgreSQLSource: {},
}

// IsDatabase reports whether the source is read through database/sql.
func (s SourceBackend) IsDatabase() bool {
	switch s {
	case SQLiteSource, MySQLSource, PostgreSQLSource:
		return true
	default:
		return false
	}
}
