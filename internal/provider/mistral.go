package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nunajera/mistral-chat/internal"
)

const (
	DefaultBaseURL    = "https://api.mistral.ai"
	DefaultAPIVersion = "v1"
	DefaultTimeout    = 30 * time.Second

	// maxErrorBody bounds how much of a failed response is read for its message.
	maxErrorBody = 64 * 1024
)

// Endpoint selects which deployment and API revision a provider talks to.
type Endpoint struct {
	BaseURL    string
	APIVersion string
}

func (e Endpoint) completionsURL() string {
	base := strings.TrimRight(e.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	version := strings.Trim(e.APIVersion, "/")
	if version == "" {
		version = DefaultAPIVersion
	}
	return base + "/" + version + "/chat/completions"
}

type MistralProvider struct {
	apiKey   string
	endpoint Endpoint
	client   *http.Client
}

// NewMistralProvider fails fast when no API key is available.
func NewMistralProvider(apiKey string, endpoint Endpoint, timeout time.Duration) (*MistralProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &internal.MissingCredentialError{Name: "MISTRAL_API_KEY"}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MistralProvider{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (p *MistralProvider) Name() string { return "mistral" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *MistralProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	payload := chatRequest{
		Model:       req.Model,
		Messages:    make([]chatMessage, 0, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, m := range req.Messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", p.fail(0, fmt.Errorf("encode request: %w", err))
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint.completionsURL(), bytes.NewReader(b))
	if err != nil {
		return "", p.fail(0, fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", p.fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", p.fail(resp.StatusCode, errorMessage(resp))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", p.fail(resp.StatusCode, fmt.Errorf("malformed response: %w", err))
	}
	if len(out.Choices) == 0 {
		return "", p.fail(resp.StatusCode, errors.New("response has no choices"))
	}
	return out.Choices[0].Message.Content, nil
}

func (p *MistralProvider) fail(status int, err error) error {
	return &internal.UpstreamError{Provider: p.Name(), Status: status, Err: err}
}

// errorMessage pulls a human readable message out of an error response.
// The API uses both {"message": ...} and {"error": {"message": ...}}.
func errorMessage(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var e struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil {
		if e.Message != "" {
			return errors.New(e.Message)
		}
		if e.Error.Message != "" {
			return errors.New(e.Error.Message)
		}
	}
	return errors.New("mistral error: " + resp.Status)
}
