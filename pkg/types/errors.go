package types

import "errors"

// Resolution errors. A property that is simply not set is not an error;
// resolvers report it as found=false.
var (
	ErrConfigurationNotFound = errors.New("configuration not found")
	ErrNilModel              = errors.New("model must not be nil")
	ErrInvalidName           = errors.New("invalid name")
)

// Provider errors.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrForeignHandle    = errors.New("handle belongs to another provider")
	ErrDetached         = errors.New("backend is detached")
	ErrAlreadyAttached  = errors.New("backend is already attached")
	ErrInvalidDocument  = errors.New("invalid document record")
)
