package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Session errors
	ErrMsgNotAuthenticated = "not authenticated"

	// User errors
	ErrMsgUserNotFound = "user not found"

	// Mission errors
	ErrMsgMissionNotFound      = "mission not found"
	ErrMsgMissionAlreadyActive = "mission is already active"
	ErrMsgMissionNotReady      = "mission is not ready to complete"
	ErrMsgMissionNotAvailable  = "mission is not available"
	ErrMsgAssignmentNotFound   = "mission assignment not found"
	ErrMsgResolutionInProgress = "mission resolution already in progress"

	// Database/System errors
	ErrMsgConnectionTimeout = "connection timeout"
	ErrMsgDatabaseError     = "database error"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrNotAuthenticated = errors.New(ErrMsgNotAuthenticated)

	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	ErrMissionNotFound      = errors.New(ErrMsgMissionNotFound)
	ErrMissionAlreadyActive = errors.New(ErrMsgMissionAlreadyActive)
	ErrMissionNotReady      = errors.New(ErrMsgMissionNotReady)
	ErrMissionNotAvailable  = errors.New(ErrMsgMissionNotAvailable)
	ErrAssignmentNotFound   = errors.New(ErrMsgAssignmentNotFound)
	ErrResolutionInProgress = errors.New(ErrMsgResolutionInProgress)

	ErrConnectionTimeout = errors.New(ErrMsgConnectionTimeout)
	ErrDatabaseError     = errors.New(ErrMsgDatabaseError)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
