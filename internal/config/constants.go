package config

const (
	// EnvReportFile names the environment variable holding the report output path.
	EnvReportFile = "NOSE_JSON_FILE"
	// EnvEncoding names the environment variable holding the report encoding.
	EnvEncoding = "NOSE_JSON_ENCODING"
	// EnvMetadataFile names the environment variable holding the metadata file path.
	EnvMetadataFile = "NOSE_JSON_METADATA"
	// DefaultReportFile is the report path used when none is configured.
	DefaultReportFile = "nosetests.json"
	// DefaultEncoding is the report encoding used when none is configured.
	DefaultEncoding = "UTF-8"
	// DefaultDatabase is the name of the default database.
	DefaultDatabase = "default"
	// ResultsTable is the table report records are pushed into.
	ResultsTable = "test_results"
	// RunsTable holds one summary row per pushed report.
	RunsTable = "test_runs"
	// SchemaMigrationsTable is the golang-migrate bookkeeping table.
	SchemaMigrationsTable = "schema_migrations"
)
