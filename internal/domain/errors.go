package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrPreferenceNotFound  = errors.New("preference not found")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrDescriptionRequired = errors.New("description is required")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrInvalidDate         = errors.New("date is not a valid calendar date")
	ErrInvalidStatus       = errors.New("invalid project status")
	ErrInvalidTheme        = errors.New("invalid theme")

	// Receipt extraction errors. Unparsable means the AI response was not
	// the expected JSON structure; incomplete means it parsed but a
	// required field was missing or invalid. Callers fall back to manual
	// entry on either.
	ErrExtractionUnparsable = errors.New("receipt extraction response is not parseable")
	ErrExtractionIncomplete = errors.New("receipt extraction is missing required fields")
)

// Validation constants
const (
	MaxCategoryNameLength = 100
	MaxProjectNameLength  = 100
)
