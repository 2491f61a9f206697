package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cardledger/backend/internal/config"
	"github.com/cardledger/backend/internal/metrics"
)

const advisorTimeout = 30 * time.Second

// AdvisorErrorKind classifies why an advisory call failed.
type AdvisorErrorKind string

const (
	AdvisorDisabled AdvisorErrorKind = "disabled"
	AdvisorNetwork  AdvisorErrorKind = "network"
	AdvisorAPI      AdvisorErrorKind = "api"
	AdvisorDecode   AdvisorErrorKind = "decode"
	AdvisorEmpty    AdvisorErrorKind = "empty"
)

// AdvisorError is returned for every advisory failure so callers can
// tell a real failure from advisory text that happens to match the
// user-facing fallback string.
type AdvisorError struct {
	Kind AdvisorErrorKind
	Err  error
}

func (e *AdvisorError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("advisor %s error", e.Kind)
	}
	return fmt.Sprintf("advisor %s error: %v", e.Kind, e.Err)
}

func (e *AdvisorError) Unwrap() error { return e.Err }

// AdvisorService generates one-sentence collector advice for a priced
// card via a hosted chat-completion API.
type AdvisorService struct {
	client    *http.Client
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	limiter   *rate.Limiter
	enabled   bool
}

func NewAdvisorService(cfg config.AdvisorConfig) *AdvisorService {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	svc := &AdvisorService{
		client:    &http.Client{Timeout: advisorTimeout},
		apiKey:    cfg.APIKey,
		baseURL:   cfg.BaseURL,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		enabled:   cfg.APIKey != "",
	}

	if svc.enabled {
		log.Printf("Advisor service: enabled (model=%s)", svc.model)
	} else {
		log.Printf("Advisor service: disabled (no API key)")
	}

	return svc
}

// IsEnabled returns whether advisory calls are available
func (s *AdvisorService) IsEnabled() bool {
	return s.enabled
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// buildPrompt fills the fixed advisory template.
func buildPrompt(name, rarity string, price float64) string {
	return fmt.Sprintf(`Analyze this Pokémon card for a collector: %s.
It has a rarity of '%s' and a current market value of $%.2f.
Based on general collector advice, would you recommend holding, selling, or keeping as a long-term investment?
Provide one short sentence of reasoning.`, name, rarity, price)
}

// Recommend returns a short hold/sell/keep sentence for the card.
// Every failure comes back as an *AdvisorError; the caller decides
// what text reaches the user.
func (s *AdvisorService) Recommend(ctx context.Context, name, rarity string, price float64) (string, error) {
	if !s.enabled {
		metrics.AdvisorErrorsTotal.WithLabelValues(string(AdvisorDisabled)).Inc()
		return "", &AdvisorError{Kind: AdvisorDisabled}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		metrics.AdvisorErrorsTotal.WithLabelValues(string(AdvisorNetwork)).Inc()
		return "", &AdvisorError{Kind: AdvisorNetwork, Err: err}
	}

	reqBody := chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(name, rarity, price)},
		},
		MaxTokens: s.maxTokens,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		metrics.AdvisorErrorsTotal.WithLabelValues(string(AdvisorDecode)).Inc()
		return "", &AdvisorError{Kind: AdvisorDecode, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewReader(reqJSON))
	if err != nil {
		metrics.AdvisorErrorsTotal.WithLabelValues(string(AdvisorNetwork)).Inc()
		return "", &AdvisorError{Kind: AdvisorNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	metrics.AdvisorRequestsTotal.Inc()
	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		metrics.AdvisorErrorsTotal.WithLabelValues(string(AdvisorNetwork)).Inc()
		return "", &AdvisorError{Kind: AdvisorNetwork, Err: err}
	}
	defer resp.Body.Close()
	metrics.AdvisorRequestDuration.Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.AdvisorErrorsTotal.WithLabelValues(string(AdvisorNetwork)).Inc()
		return "", &AdvisorError{Kind: AdvisorNetwork, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		metrics.AdvisorErrorsTotal.WithLabelValues(string(AdvisorAPI)).Inc()
		return "", &AdvisorError{Kind: AdvisorAPI, Err: fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))}
	}

	var apiResp chatCompletionResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		metrics.AdvisorErrorsTotal.WithLabelValues(string(AdvisorDecode)).Inc()
		return "", &AdvisorError{Kind: AdvisorDecode, Err: err}
	}

	if apiResp.Error != nil {
		metrics.AdvisorErrorsTotal.WithLabelValues(string(AdvisorAPI)).Inc()
		return "", &AdvisorError{Kind: AdvisorAPI, Err: fmt.Errorf("API error: %s", apiResp.Error.Message)}
	}

	if len(apiResp.Choices) == 0 {
		metrics.AdvisorErrorsTotal.WithLabelValues(string(AdvisorEmpty)).Inc()
		return "", &AdvisorError{Kind: AdvisorEmpty}
	}

	text := strings.TrimSpace(apiResp.Choices[0].Message.Content)
	if text == "" {
		metrics.AdvisorErrorsTotal.WithLabelValues(string(AdvisorEmpty)).Inc()
		return "", &AdvisorError{Kind: AdvisorEmpty}
	}

	return text, nil
}
