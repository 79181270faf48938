// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes give clients a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, unauthorized, conflict) mirror common HTTP
//     status semantics.
//   - Domain-specific codes (e.g., generation_failed, save_failed) are reserved for
//     failures that cannot be conveyed by status alone.
//   - Streaming generation reports the same codes inside its "error" event.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "configuration_required",
//	  "message": "configuration required"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeConfigurationRequired = "configuration_required"
	ErrCodeGenerationFailed      = "generation_failed"
	ErrCodeSaveFailed            = "save_failed"
	ErrCodeListFailed            = "list_failed"
	ErrCodeMethodNotAllowed      = "method_not_allowed"
)
