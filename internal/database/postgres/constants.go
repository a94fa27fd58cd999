package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeForeignKeyViolation is raised when an assignment references an unknown mission
	PgErrorCodeForeignKeyViolation = "23503"
)

// DefaultProfileLevel is reported for users without a profile row
const DefaultProfileLevel = 1

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	ErrMsgFailedToRollback          = "Failed to rollback transaction"
)

// Error Messages - Mission Operations
const (
	ErrMsgFailedToFetchCatalog       = "failed to fetch mission catalog"
	ErrMsgFailedToUpsertMission      = "failed to upsert mission"
	ErrMsgFailedToFetchAssignments   = "failed to fetch mission assignments"
	ErrMsgFailedToInsertAssignment   = "failed to insert mission assignment"
	ErrMsgFailedToCompleteAssignment = "failed to complete mission assignment"
	ErrMsgFailedToDeleteAssignment   = "failed to delete mission assignment"
)

// Error Messages - Profile Operations
const (
	ErrMsgFailedToGetProfile     = "failed to get profile"
	ErrMsgFailedToUpdateProfile  = "failed to update profile"
	ErrMsgFailedToCreditCurrency = "failed to credit currency"
)

// Log Messages
const (
	LogMsgCreditReplayed = "Currency credit already applied, skipping"
)

// Error Messages - Event Log Operations
const (
	ErrMsgFailedToLogEvent     = "failed to log event"
	ErrMsgFailedToQueryEvents  = "failed to query events"
	ErrMsgFailedToCleanupEvent = "failed to cleanup events"
)
