package schema

import "errors"

var (
	// ErrNotInitialized indicates the controller has no live driver session.
	ErrNotInitialized = errors.New("session not initialized")
	// ErrNotFound indicates an expected UI element never appeared within its wait budget.
	ErrNotFound = errors.New("element not found")
	// ErrTimeout indicates the search results panel for the submitted keyword never appeared.
	ErrTimeout = errors.New("timed out")
	// ErrInvalidArgument indicates a malformed action argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfRange indicates a display index absent from the current result set.
	ErrOutOfRange = errors.New("index not in search result")
	// ErrInvalidState indicates an action issued without its prerequisite (search, playlist).
	ErrInvalidState = errors.New("invalid state")
)
