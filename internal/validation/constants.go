package validation

// Error context messages
const (
	ErrContextReadData      = "failed to read data file"
	ErrContextParseData     = "failed to parse JSON data"
	ErrContextLoadSchema    = "failed to load schema"
	ErrContextReadSchema    = "failed to read schema file"
	ErrContextParseSchema   = "failed to parse schema JSON"
	ErrContextAddResource   = "failed to add schema resource"
	ErrContextCompileSchema = "failed to compile schema"
)

// Error messages
const (
	ErrMsgSchemaValidationFailed = "schema validation failed"
	ErrMsgSchemaNotFound         = "schema file not found"
)
