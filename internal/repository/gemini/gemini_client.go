package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"travelDiscovery/business/recommendation"
	"travelDiscovery/domain"
	"travelDiscovery/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	breakerFailures = 5
	breakerTimeout  = 30 * time.Second
	maxErrorBody    = 512
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client calls the generateContent endpoint and returns the model's JSON text.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[string]
}

var _ recommendation.Generator = (*Client)(nil)

// NewClient returns domain.ErrGeneratorNotConfigured when no API key is set.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ErrGeneratorNotConfigured
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}

	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up says nothing about the service
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			breakerState.Set(float64(to))
		},
	})

	logger.Info("gemini client initialized", "model", c.model)
	return c, nil
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float32 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// GenerateJSON sends one prompt and returns the concatenated text of the first candidate.
// Calls are never retried here.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("travelDiscovery/gemini").Start(ctx, "gemini.GenerateJSON",
		trace.WithAttributes(
			attribute.String("llm.model", c.model),
			attribute.Int("llm.prompt_len", len(prompt)),
		),
	)
	defer span.End()

	start := time.Now()
	out, err := c.breaker.Execute(func() (string, error) {
		return c.generate(ctx, prompt)
	})
	recordCall(time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, classifyError(err))
		return "", err
	}

	span.SetAttributes(attribute.Int("llm.response_len", len(out)))
	return out, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.2,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("gemini: creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini: reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: API returned %d: %s", resp.StatusCode, truncate(string(body), maxErrorBody))
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("gemini: parsing response JSON: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("gemini: API error [%d] %s: %s",
			apiResp.Error.Code, apiResp.Error.Status, truncate(apiResp.Error.Message, maxErrorBody))
	}
	if len(apiResp.Candidates) == 0 {
		return "", ErrNoCandidates
	}

	var parts []string
	for _, part := range apiResp.Candidates[0].Content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	result := strings.Join(parts, "")
	if strings.TrimSpace(result) == "" {
		return "", ErrEmptyContent
	}

	logger.Debug("gemini response received",
		"model", c.model,
		"response_len", len(result),
		"finish_reason", apiResp.Candidates[0].FinishReason,
	)
	return result, nil
}

var (
	ErrNoCandidates = errors.New("gemini: returned no candidates")
	ErrEmptyContent = errors.New("gemini: returned empty text content")
)

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
