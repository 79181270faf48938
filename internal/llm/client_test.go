package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func replyWith(text string) map[string]any {
	return map[string]any{
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": "end_turn",
	}
}

func TestGenerate_Success_StripsFences(t *testing.T) {
	var gotReq messagesRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1/messages" {
			t.Errorf("expected /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("bad api key header: %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != DefaultVersion {
			t.Errorf("bad version header: %q", r.Header.Get("anthropic-version"))
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(replyWith("```json\n{\"title\":\"Sky\",\"keywords\":[1,2,3]}\n```"))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "m1"}, srv.Client())
	obj, err := c.Generate(context.Background(), "hello prompt", 1234)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["title"] != "Sky" {
		t.Fatalf("title = %v", obj["title"])
	}
	if gotReq.Model != "m1" || gotReq.MaxTokens != 1234 {
		t.Fatalf("request = %+v", gotReq)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "hello prompt" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
}

func TestGenerate_NoKey_NoNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "  ", BaseURL: srv.URL}, srv.Client())
	if c.Configured() {
		t.Fatalf("blank key should not count as configured")
	}
	if _, err := c.Generate(context.Background(), "p", 10); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("want ErrConfiguration, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("expected zero network calls, got %d", calls)
	}
}

func TestGenerate_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(replyWith("Sure! Here is your reading: {oops"))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, srv.Client())
	if _, err := c.Generate(context.Background(), "p", 10); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
}

func TestGenerate_UpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, srv.Client())
	_, err := c.Generate(context.Background(), "p", 10)
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("want ErrUpstream, got %v", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"```JSON {\"a\":1} ```":   `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripCodeFence(in); got != want {
			t.Fatalf("StripCodeFence(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestDecodeObject_RejectsNonObjects(t *testing.T) {
	for _, in := range []string{"null", "[1,2]", "\"text\"", ""} {
		if _, err := DecodeObject(in); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("DecodeObject(%q) err = %v; want ErrMalformedResponse", in, err)
		}
	}
}
