package message

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/verte-zerg/keypunch/internal/model"
)

func TestOpenAINextReturnsTrimmedContent(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  GREETINGS, PROGRAM.  "}}]}`)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer srv.Close()

	src := NewOpenAI(model.OpenAIConfig{BaseURL: srv.URL, Model: "test-model", Prompt: "say hi"}, "sk-test")
	msg, err := src.Next(context.Background())
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if msg != "GREETINGS, PROGRAM." {
		t.Fatalf("expected trimmed content, got %q", msg)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("expected chat completions path, got %q", gotPath)
	}
	if gotReq.Model != "test-model" {
		t.Fatalf("expected model test-model, got %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "say hi" {
		t.Fatalf("unexpected request messages: %+v", gotReq.Messages)
	}
}

func TestOpenAINextDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		if _, err := w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth"}}`)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer srv.Close()

	src := NewOpenAI(model.OpenAIConfig{BaseURL: srv.URL}, "sk-bad")
	_, err := src.Next(context.Background())
	if err == nil {
		t.Fatalf("expected error for rejected request")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("expected API error message, got %v", err)
	}
}

func TestOpenAINextRejectsEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"choices":[]}`)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer srv.Close()

	src := NewOpenAI(model.OpenAIConfig{BaseURL: srv.URL}, "sk-test")
	if _, err := src.Next(context.Background()); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestNewOpenAIDefaults(t *testing.T) {
	src := NewOpenAI(model.OpenAIConfig{}, "sk-test")
	if src.baseURL != defaultBaseURL {
		t.Fatalf("expected default base URL, got %q", src.baseURL)
	}
	if src.model == "" || src.prompt == "" {
		t.Fatalf("expected model and prompt defaults")
	}
	// Trailing slashes must not double up in the request URL.
	src = NewOpenAI(model.OpenAIConfig{BaseURL: "http://example.test/v1/"}, "sk-test")
	if src.baseURL != "http://example.test/v1" {
		t.Fatalf("expected trimmed base URL, got %q", src.baseURL)
	}
}
