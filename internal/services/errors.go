// Package services defines the business logic for generating, saving and
// engaging with readings. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import (
	"errors"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/llm"
)

// Request validation errors. They alias the domain values so errors.Is
// works no matter which layer produced them.
var (
	ErrInvalidKind       = domain.ErrUnknownKind
	ErrEmptyInput        = domain.ErrEmptyInput
	ErrInvalidCards      = domain.ErrInvalidCards
	ErrInvalidCategory   = domain.ErrInvalidCategory
	ErrInvalidVisibility = domain.ErrInvalidVisibility

	// ErrTooLong is returned when free text or a comment exceeds the
	// configured rune limit.
	ErrTooLong = errors.New("input too long")
)

// Generation errors.
var (
	// ErrConfiguration indicates a missing API key. It is detected before
	// any network call.
	ErrConfiguration = llm.ErrConfiguration

	// ErrMalformedResponse indicates the text model did not return a JSON
	// object.
	ErrMalformedResponse = llm.ErrMalformedResponse

	// ErrGenerationFailed wraps any other fatal text generation error.
	ErrGenerationFailed = errors.New("reading generation failed")
)

// Reading and engagement errors.
var (
	// ErrReadingNotFound indicates that the reading does not exist or is not
	// visible to the viewer.
	ErrReadingNotFound = errors.New("reading not found")

	// ErrForbidden is returned when a caller tries to change a reading or
	// comment they do not own.
	ErrForbidden = errors.New("not allowed")

	// ErrUnauthenticated is returned by operations that need a user id.
	ErrUnauthenticated = errors.New("user id required")

	// ErrInvalidRating is returned for scores outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrEmptyComment is returned for blank comment bodies.
	ErrEmptyComment = errors.New("comment is empty")

	// ErrCommentNotFound indicates that the comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrSaveTaskNotFound indicates an unknown or expired save task id.
	ErrSaveTaskNotFound = errors.New("save task not found")

	// ErrUnsupportedImageRef is returned for an image reference that is not
	// a media handle, a data URL, an http(s) URL or a blob store URL.
	ErrUnsupportedImageRef = errors.New("unsupported image reference")

	// ErrNotSaved is returned when persistence could not store a result.
	ErrNotSaved = errors.New("reading not saved")
)
