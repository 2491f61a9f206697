package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cardledger/backend/internal/config"
)

func newTestAdvisor(t *testing.T, handler http.HandlerFunc) *AdvisorService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewAdvisorService(config.AdvisorConfig{
		APIKey:            "sk-test",
		BaseURL:           server.URL,
		Model:             "gpt-3.5-turbo",
		MaxTokens:         50,
		RequestsPerSecond: 1000,
	})
}

func TestRecommend(t *testing.T) {
	var gotBody chatCompletionRequest

	svc := newTestAdvisor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want Bearer sk-test", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "  Hold it, Charizard rarely loses value.  "}}]}`))
	})

	text, err := svc.Recommend(context.Background(), "Charizard", "Rare Holo", 419.5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if text != "Hold it, Charizard rarely loses value." {
		t.Errorf("Recommend() = %q, want trimmed completion text", text)
	}

	if gotBody.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %s, want gpt-3.5-turbo", gotBody.Model)
	}
	if gotBody.MaxTokens != 50 {
		t.Errorf("max_tokens = %d, want 50", gotBody.MaxTokens)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v, want a single user message", gotBody.Messages)
	}

	prompt := gotBody.Messages[0].Content
	for _, want := range []string{"Pokémon card", "Charizard", "Rare Holo", "$419.50"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q: %s", want, prompt)
		}
	}
}

func TestRecommendFailures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind AdvisorErrorKind
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
			},
			wantKind: AdvisorAPI,
		},
		{
			name: "error payload with 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"error": {"message": "model overloaded", "type": "server_error"}}`))
			},
			wantKind: AdvisorAPI,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
			wantKind: AdvisorDecode,
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices": []}`))
			},
			wantKind: AdvisorEmpty,
		},
		{
			name: "blank completion",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "   "}}]}`))
			},
			wantKind: AdvisorEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAdvisor(t, tt.handler)

			_, err := svc.Recommend(context.Background(), "Pikachu", "Common", 1.25)
			if err == nil {
				t.Fatal("Recommend() should fail")
			}

			var advErr *AdvisorError
			if !errors.As(err, &advErr) {
				t.Fatalf("error type = %T, want *AdvisorError", err)
			}
			if advErr.Kind != tt.wantKind {
				t.Errorf("error kind = %s, want %s", advErr.Kind, tt.wantKind)
			}
		})
	}
}

func TestRecommendDisabledWithoutKey(t *testing.T) {
	svc := NewAdvisorService(config.AdvisorConfig{
		BaseURL:   "http://localhost:0",
		Model:     "gpt-3.5-turbo",
		MaxTokens: 50,
	})

	if svc.IsEnabled() {
		t.Error("advisor should be disabled without an API key")
	}

	_, err := svc.Recommend(context.Background(), "Pikachu", "Common", 1.25)
	var advErr *AdvisorError
	if !errors.As(err, &advErr) || advErr.Kind != AdvisorDisabled {
		t.Fatalf("error = %v, want AdvisorDisabled", err)
	}
}
