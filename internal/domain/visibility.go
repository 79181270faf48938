package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Visibility is the tri-state access policy of a saved reading.
//
//   - public:   listed in feeds and search
//   - unlisted: reachable only through a direct link
//   - private:  owner only
type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPublic   Visibility = "public"
)

// ParseVisibility accepts the three visibility names, case-insensitively.
func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(strings.ToLower(strings.TrimSpace(s))); v {
	case VisibilityPrivate, VisibilityUnlisted, VisibilityPublic:
		return v, nil
	}
	return "", ErrInvalidVisibility
}

// VisibilityOption is what a caller asks for when saving or re-sharing a
// reading. On the wire it is either the legacy boolean (true = public,
// false = private), a bare visibility string, or an object:
//
//	{"visibility": "public", "anonymous": true}
//
// The zero value means public, non-anonymous.
type VisibilityOption struct {
	Visibility Visibility `json:"visibility,omitempty"`
	Anonymous  bool       `json:"anonymous,omitempty"`
}

// PublicOption is the default used by auto-save.
func PublicOption() VisibilityOption { return VisibilityOption{Visibility: VisibilityPublic} }

// UnmarshalJSON accepts the boolean, string and object forms.
func (o *VisibilityOption) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*o = VisibilityOption{}
		return nil
	case bytes.Equal(b, []byte("true")):
		*o = VisibilityOption{Visibility: VisibilityPublic}
		return nil
	case bytes.Equal(b, []byte("false")):
		*o = VisibilityOption{Visibility: VisibilityPrivate}
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseVisibility(s)
		if err != nil {
			return err
		}
		*o = VisibilityOption{Visibility: v}
		return nil
	}

	var raw struct {
		Visibility string `json:"visibility"`
		Anonymous  bool   `json:"anonymous"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := VisibilityOption{Anonymous: raw.Anonymous}
	if strings.TrimSpace(raw.Visibility) != "" {
		v, err := ParseVisibility(raw.Visibility)
		if err != nil {
			return err
		}
		out.Visibility = v
	}
	*o = out
	return nil
}

// Resolve returns the effective flags. isPublic is true iff the visibility
// is public, and anonymity is only ever granted to public readings.
func (o VisibilityOption) Resolve() (vis Visibility, isPublic, isAnonymous bool) {
	vis = o.Visibility
	if vis == "" {
		vis = VisibilityPublic
	}
	isPublic = vis == VisibilityPublic
	isAnonymous = isPublic && o.Anonymous
	return vis, isPublic, isAnonymous
}
