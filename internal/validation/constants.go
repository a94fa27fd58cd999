package validation

import "errors"

// SchemaURLPrefix namespaces schema resources inside the compiler
const SchemaURLPrefix = "mem://schemas/"

// ErrSchemaViolation is returned when a document does not match its schema
var ErrSchemaViolation = errors.New("schema validation failed")

// Error message formats
const (
	ErrMsgLoadSchemaFailed    = "failed to load schema %s: %w"
	ErrMsgParseDataFailed     = "failed to parse JSON data: %w"
	ErrMsgReadSchemaFailed    = "failed to read schema file: %w"
	ErrMsgParseSchemaFailed   = "failed to parse schema JSON: %w"
	ErrMsgAddResourceFailed   = "failed to add schema resource: %w"
	ErrMsgCompileSchemaFailed = "failed to compile schema: %w"
)
