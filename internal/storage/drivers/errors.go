package drivers

import "errors"

// Business-rule failures shared by all drivers. Handlers map these to
// client-visible status codes with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrOpenReceptionExists = errors.New("open reception already exists")
	ErrNoOpenReception     = errors.New("no open reception")
	ErrNoProducts          = errors.New("no products to delete")
)
