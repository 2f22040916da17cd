package services

import "errors"

// Domain errors surfaced by the job card and invoicing operations. Controllers
// match on these with errors.Is; the HTTP error handler maps them to statuses.
var (
	ErrNotFound              = errors.New("record not found")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrDiagnosisLocked       = errors.New("diagnosis already submitted")
	ErrMissingInvoiceAddress = errors.New("no invoice address on repair order")
	ErrNoAccountConfigured   = errors.New("no income account configured for product")
	ErrMissingFeeProduct     = errors.New("no product defined on fee")
)
