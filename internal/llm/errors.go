package llm

import "errors"

var (
	// ErrConfiguration means no API key is configured. It is returned before
	// any network call is made.
	ErrConfiguration = errors.New("text generation is not configured")
	// ErrMalformedResponse means the model reply was not a JSON object after
	// code fences were stripped.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrUpstream covers transport failures and non-2xx replies.
	ErrUpstream = errors.New("text generation upstream error")
)
