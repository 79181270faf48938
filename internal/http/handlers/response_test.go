package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dossbaby/dream-storybook-sub001/internal/http/middleware"
	"github.com/dossbaby/dream-storybook-sub001/internal/services"
)

func Test_fail_500_LogsAndBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// capture logs from LoggerFrom(c)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r.Use(middleware.RequestID())
	r.Use(func(c *gin.Context) {
		c.Set("logger", &logger)
		c.Next()
	})

	r.GET("/boom", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, "internal_error", "kaboom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "rid-500")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "rid-500" || resp.Code != "internal_error" || resp.Message != "kaboom" {
		t.Fatalf("unexpected body: %+v", resp)
	}

	// ensure something was logged at error level
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected error log, got: %s", buf.String())
	}
}

func Test_fail_4xx_NotLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/nf", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nf", nil))
	if w.Code != http.StatusNotFound || buf.Len() != 0 {
		t.Fatalf("status=%d log=%q", w.Code, buf.String())
	}
}

func Test_classify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrConfiguration, http.StatusServiceUnavailable, ErrCodeConfigurationRequired},
		{services.ErrInvalidKind, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrEmptyInput, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrInvalidCategory, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrInvalidVisibility, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrInvalidRating, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrEmptyComment, http.StatusBadRequest, ErrCodeBadRequest},
		{fmt.Errorf("wrapped: %w", services.ErrMalformedResponse), http.StatusBadGateway, ErrCodeGenerationFailed},
		{context.DeadlineExceeded, http.StatusBadGateway, ErrCodeGenerationFailed},
		{services.ErrUnauthenticated, http.StatusUnauthorized, ErrCodeUnauthorized},
		{services.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{services.ErrReadingNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrCommentNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrSaveTaskNotFound, http.StatusNotFound, ErrCodeNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		status, code, msg := classify(tc.err)
		if status != tc.status || code != tc.code {
			t.Errorf("%v: got %d/%s want %d/%s", tc.err, status, code, tc.status, tc.code)
		}
		if strings.Contains(msg, "disk") {
			t.Errorf("internal detail leaked: %q", msg)
		}
	}
}

func Test_serviceError_CanceledWritesNothing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/c", func(c *gin.Context) { serviceError(c, context.Canceled) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/c", nil))
	if w.Body.Len() != 0 {
		t.Fatalf("canceled request got body %q", w.Body.String())
	}
}

func Test_SuccessHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ok", func(c *gin.Context) { ok(c, http.StatusCreated, gin.H{"id": "x"}) })
	r.GET("/nc", func(c *gin.Context) { noContent(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"id":"x"`) {
		t.Fatalf("ok: %d %s", w.Code, w.Body.String())
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nc", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("noContent: %d", w.Code)
	}
}
