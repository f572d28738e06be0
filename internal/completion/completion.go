// Package completion sends prompts to an OpenAI-compatible chat completion
// API (OpenRouter by default) and classifies its failures.
//
// The API key is attached by an oauth2 transport, so it only exists inside
// the HTTP client and never in request-building code or logs.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/oauth2"

	"github.com/sakif/profile-explorer/internal/apperror"
)

// Defaults for the OpenRouter deployment.
const (
	DefaultBaseURL      = "https://openrouter.ai/api/v1"
	DefaultModel        = "mistralai/mistral-7b-instruct:free"
	DefaultSystemPrompt = "You are an expert GitHub profile analyst."
	DefaultTemperature  = 0.7
	DefaultMaxTokens    = 500
	DefaultSiteURL      = "http://localhost:3000"
	DefaultSiteName     = "GitHub Profile Analyzer"
)

// msgModelError is shown when the API rejects a request without a
// readable error message.
const msgModelError = "Model error"

type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string
	Temperature  float32
	MaxTokens    int

	// SiteURL and SiteName are sent as HTTP-Referer and X-Title, which
	// OpenRouter uses for attribution. Empty values are not sent.
	SiteURL  string
	SiteName string
}

func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		Model:        DefaultModel,
		SystemPrompt: DefaultSystemPrompt,
		Temperature:  DefaultTemperature,
		MaxTokens:    DefaultMaxTokens,
		SiteURL:      DefaultSiteURL,
		SiteName:     DefaultSiteName,
	}
}

type Client struct {
	api    *openai.Client
	cfg    Config
	logger *slog.Logger
}

// New builds a client. base is the innermost transport (nil for
// http.DefaultTransport); attribution headers and the bearer key are
// layered on top of it.
func New(cfg Config, base http.RoundTripper, logger *slog.Logger) *Client {
	if base == nil {
		base = http.DefaultTransport
	}

	var rt http.RoundTripper = &headerTransport{
		base: base,
		headers: map[string]string{
			"HTTP-Referer": cfg.SiteURL,
			"X-Title":      cfg.SiteName,
		},
	}
	if cfg.APIKey != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey}),
			Base:   rt,
		}
	}

	// The empty token keeps go-openai from setting its own Authorization
	// header; the transport above owns it.
	apiCfg := openai.DefaultConfig("")
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.HTTPClient = &http.Client{Transport: rt}

	return &Client{
		api:    openai.NewClientWithConfig(apiCfg),
		cfg:    cfg,
		logger: logger,
	}
}

// Complete sends a system message and prompt as one conversation and
// returns the first choice's text. An empty string with a nil error means
// the API answered without any content.
//
// A rejection by the API is returned as an UpstreamModel error carrying the
// API's status code. Transport failures are wrapped and returned as-is.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.cfg.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		if appErr := classify(err); appErr != nil {
			c.logger.Warn("completion rejected",
				slog.String("model", c.cfg.Model),
				slog.Int("status", appErr.Status),
				slog.String("message", appErr.Message),
			)
			return "", appErr
		}
		return "", fmt.Errorf("completion: requesting chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// classify turns an HTTP-level rejection into an UpstreamModel error.
// It returns nil for anything that never got a status code.
//
// RequestError is checked first: when the body held a partial error object
// go-openai nests an APIError inside it with no status of its own.
func classify(err error) *apperror.AppError {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := msgModelError
		var inner *openai.APIError
		if errors.As(reqErr.Err, &inner) && inner.Message != "" {
			msg = inner.Message
		}
		return apperror.UpstreamModel(reqErr.HTTPStatusCode, msg)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		msg := apiErr.Message
		if msg == "" {
			msg = msgModelError
		}
		return apperror.UpstreamModel(apiErr.HTTPStatusCode, msg)
	}

	return nil
}

// headerTransport sets fixed headers on every outgoing request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}
