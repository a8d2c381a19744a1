package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Validation errors (client input, rejected before any write)
	ErrInvalidInput  = errors.New("invalid input")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
	ErrInvalidRole   = errors.New("invalid role")
	ErrAdminExists   = errors.New("an admin account already exists")
	ErrEmailTaken    = errors.New("this email is already an admin")
	ErrAdminNotFound = errors.New("admin account not found")

	// Authorization errors
	ErrUnauthorized     = errors.New("authentication required")
	ErrPermissionDenied = errors.New("permission denied")
)
