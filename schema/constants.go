package schema

// Custom string types for type safety.
type (
	// HealthLabel is the qualitative label attached to a health score.
	HealthLabel string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for record storage.
	DatabaseBackend string

	// SandboxMode controls how the dependency analyzer executes npm commands.
	SandboxMode string
)

// All health labels supported, from best to worst.
const (
	ExcellentHealth HealthLabel = "Excellent"
	GoodHealth      HealthLabel = "Good"
	ModerateHealth  HealthLabel = "Moderate"
	PoorHealth      HealthLabel = "Poor"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	ParquetOut OutputMode = "parquet"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All sandbox modes supported.
const (
	SandboxAuto   SandboxMode = "auto" // default: docker when available
	SandboxDocker SandboxMode = "docker"
	SandboxDirect SandboxMode = "direct"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSandboxModes lists all valid sandbox modes.
var ValidSandboxModes = map[SandboxMode]struct{}{
	SandboxAuto:   {},
	SandboxDocker: {},
	SandboxDirect: {},
}

// DependencyHealthLabel maps a dependency analysis score to its label.
func DependencyHealthLabel(score float64) HealthLabel {
	switch {
	case score < 40:
		return PoorHealth
	case score < 60:
		return ModerateHealth
	case score < 80:
		return GoodHealth
	default:
		return ExcellentHealth
	}
}

// OverallHealthLabel maps a composite repository score to its label.
func OverallHealthLabel(score int) HealthLabel {
	switch {
	case score >= 80:
		return ExcellentHealth
	case score >= 60:
		return GoodHealth
	case score >= 40:
		return ModerateHealth
	default:
		return PoorHealth
	}
}
