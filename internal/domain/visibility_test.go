package domain

import (
	"encoding/json"
	"testing"
)

func TestVisibilityOption_UnmarshalForms(t *testing.T) {
	cases := []struct {
		in   string
		want VisibilityOption
	}{
		{`null`, VisibilityOption{}},
		{`true`, VisibilityOption{Visibility: VisibilityPublic}},
		{`false`, VisibilityOption{Visibility: VisibilityPrivate}},
		{`"Unlisted"`, VisibilityOption{Visibility: VisibilityUnlisted}},
		{`{"visibility":"public","anonymous":true}`, VisibilityOption{Visibility: VisibilityPublic, Anonymous: true}},
		{`{"anonymous":true}`, VisibilityOption{Anonymous: true}},
	}
	for _, tc := range cases {
		var got VisibilityOption
		if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %+v; want %+v", tc.in, got, tc.want)
		}
	}

	var bad VisibilityOption
	if err := json.Unmarshal([]byte(`"friends"`), &bad); err == nil {
		t.Fatalf("expected error for unknown visibility")
	}
}

func TestVisibilityOption_Resolve(t *testing.T) {
	cases := []struct {
		opt                VisibilityOption
		vis                Visibility
		isPublic, isAnonym bool
	}{
		{VisibilityOption{}, VisibilityPublic, true, false},
		{VisibilityOption{Anonymous: true}, VisibilityPublic, true, true},
		{VisibilityOption{Visibility: VisibilityPrivate, Anonymous: true}, VisibilityPrivate, false, false},
		{VisibilityOption{Visibility: VisibilityUnlisted, Anonymous: true}, VisibilityUnlisted, false, false},
	}
	for _, tc := range cases {
		vis, pub, anon := tc.opt.Resolve()
		if vis != tc.vis || pub != tc.isPublic || anon != tc.isAnonym {
			t.Fatalf("Resolve(%+v) = %s,%v,%v", tc.opt, vis, pub, anon)
		}
		// anonymity implies public
		if anon && !pub {
			t.Fatalf("anonymous without public: %+v", tc.opt)
		}
	}
}
