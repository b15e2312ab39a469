package grok

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ErrTimeout is returned when the completion request exceeds the configured
// deadline or the caller's context expires.
var ErrTimeout = errors.New("grok: request timed out")

// APIError carries a non-2xx response from the xAI API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("grok: api error status=%d message=%s", e.Status, e.Message)
}

// Client talks to the xAI chat completions API.
type Client interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (*Result, error)
}

// Result is the raw model output plus any Live Search citations the API
// attached to the response.
type Result struct {
	Content   string
	Citations []string
}

type Config struct {
	BaseURL          string
	APIKey           string
	Model            string
	SearchMode       string
	MaxSearchResults int
	ReturnCitations  bool
	Timeout          time.Duration
}

type httpClient struct {
	cfg    Config
	client *http.Client
	logger *log.Logger
}

func NewClient(cfg Config, logger *log.Logger) Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.x.ai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "grok-4-1-fast-reasoning"
	}
	if cfg.SearchMode == "" {
		cfg.SearchMode = "auto"
	}
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 55 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type searchParameters struct {
	Mode             string `json:"mode"`
	MaxSearchResults int    `json:"max_search_results"`
	ReturnCitations  bool   `json:"return_citations"`
}

type completionRequest struct {
	Model            string           `json:"model"`
	Messages         []chatMessage    `json:"messages"`
	Temperature      float64          `json:"temperature"`
	MaxTokens        int              `json:"max_tokens"`
	SearchParameters searchParameters `json:"search_parameters"`
}

// citationList accepts both forms the API has been observed to emit: plain
// URL strings and objects carrying a url or link field.
type citationList []string

func (c *citationList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var obj struct {
			URL  string `json:"url"`
			Link string `json:"link"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			if u := strings.TrimSpace(obj.URL); u != "" {
				out = append(out, u)
			} else if u := strings.TrimSpace(obj.Link); u != "" {
				out = append(out, u)
			}
		}
	}
	*c = out
	return nil
}

type completionResponse struct {
	Choices []struct {
		Citations citationList `json:"citations"`
		Message   struct {
			Content   string       `json:"content"`
			Citations citationList `json:"citations"`
		} `json:"message"`
	} `json:"choices"`
	Citations citationList `json:"citations"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (c *httpClient) Complete(ctx context.Context, systemPrompt string, userPrompt string) (*Result, error) {
	if c == nil {
		return nil, errors.New("nil grok client")
	}
	if c.client == nil {
		return nil, errors.New("nil http client")
	}
	endpoint := c.cfg.BaseURL + "/chat/completions"

	body := completionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.3,
		MaxTokens:   3000,
		SearchParameters: searchParameters{
			Mode:             c.cfg.SearchMode,
			MaxSearchResults: c.cfg.MaxSearchResults,
			ReturnCitations:  c.cfg.ReturnCitations,
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			if c.logger != nil {
				c.logger.Printf("[Grok] Complete timed out endpoint=%s timeout=%s", endpoint, c.cfg.Timeout)
			}
			return nil, ErrTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := extractAPIMessage(rb, resp.StatusCode)
		if c.logger != nil {
			c.logger.Printf("[Grok] Complete error endpoint=%s status=%d message=%q", endpoint, resp.StatusCode, msg)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	var out completionResponse
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("grok: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("grok: response has no choices")
	}

	res := &Result{
		Content:   out.Choices[0].Message.Content,
		Citations: pickCitations(out),
	}
	if c.logger != nil && len(res.Citations) > 0 {
		c.logger.Printf("[Grok] Received %d citations from Live Search", len(res.Citations))
	}
	return res, nil
}

// pickCitations checks the three locations the API has placed citations in:
// top-level, on the first choice, and on the choice's message.
func pickCitations(resp completionResponse) []string {
	if len(resp.Citations) > 0 {
		return resp.Citations
	}
	if len(resp.Choices) > 0 {
		if len(resp.Choices[0].Citations) > 0 {
			return resp.Choices[0].Citations
		}
		if len(resp.Choices[0].Message.Citations) > 0 {
			return resp.Choices[0].Message.Citations
		}
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return false
}

func extractAPIMessage(body []byte, status int) string {
	var eb apiErrorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if m := strings.TrimSpace(eb.Error.Message); m != "" {
			return m
		}
		if m := strings.TrimSpace(eb.Message); m != "" {
			return m
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return http.StatusText(status)
}

var _ Client = (*httpClient)(nil)
