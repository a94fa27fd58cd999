package catalog

// Catalog file and schema names
const (
	DefaultCatalogPath = "configs/missions/catalog.json"
	SchemaName         = "missions.schema.json"
)

// File operation error messages
const (
	ErrMsgReadConfigFileFailed = "failed to read mission catalog file: %w"
	ErrMsgParseConfigFailed    = "failed to parse mission catalog: %w"
	ErrMsgSchemaFailed         = "schema validation failed for %s: %w"
)

// Validation error messages (fragments used with error wrapping)
const (
	ErrMsgConfigNil          = "config is nil"
	ErrMsgNoMissionsDefined  = "no missions defined"
	ErrMsgMissingBootstrap   = "bootstrap mission %q is missing"
	ErrFmtMissionInvalid     = "%w: mission %q: %s"
	ErrFmtMissionAtIndex     = "%w: mission at index %d: %s"
	ErrFmtDuplicateID        = "%w: '%s'"
	ErrFmtDuplicateTitle     = "%w: '%s'"
	ErrMsgUpsertMissionsFail = "failed to upsert missions: %w"
)

// Log messages
const (
	LogMsgSyncCompleted = "Mission catalog sync completed"
	LogMsgLoadedCatalog = "Loaded mission catalog"
)
