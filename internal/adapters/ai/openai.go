package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"task-companion-service/internal/ports"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultChatModel   = "gpt-4o"
	defaultAudioModel  = "whisper-1"
	defaultHTTPTimeout = 60 * time.Second
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// OpenAIClient talks to the OpenAI HTTP API. It implements both
// ports.ChatCompleter (chat completions in JSON mode) and ports.Transcriber
// (Whisper audio transcription).
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	chatModel  string
	audioModel string
	session    *http.Client
}

type OpenAIOption func(*OpenAIClient)

func WithBaseURL(url string) OpenAIOption {
	return func(c *OpenAIClient) { c.baseURL = strings.TrimRight(url, "/") }
}

func WithChatModel(model string) OpenAIOption {
	return func(c *OpenAIClient) { c.chatModel = model }
}

func WithAudioModel(model string) OpenAIOption {
	return func(c *OpenAIClient) { c.audioModel = model }
}

func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(c *OpenAIClient) { c.session = client }
}

func NewOpenAIClient(apiKey string, opts ...OpenAIOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai: api key must be non-empty")
	}

	c := &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		chatModel:  defaultChatModel,
		audioModel: defaultAudioModel,
		session:    &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// CompleteJSON sends one JSON-mode chat completion and returns the raw JSON
// document the model produced.
func (c *OpenAIClient) CompleteJSON(ctx context.Context, req ports.ChatRequest) ([]byte, error) {
	body := chatCompletionRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
	}
	body.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, c.baseURL+"/chat/completions",
			bytes.NewReader(payload), "application/json")
	})
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}
	defer resp.Body.Close()

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("openai: response contained no choices")
	}

	return []byte(parsed.Choices[0].Message.Content), nil
}

// Transcribe sends recorded audio to the Whisper endpoint.
func (c *OpenAIClient) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", audioFilename(contentType))
	if err != nil {
		return "", fmt.Errorf("openai: build multipart body: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("openai: write audio payload: %w", err)
	}
	if err := mw.WriteField("model", c.audioModel); err != nil {
		return "", fmt.Errorf("openai: write model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("openai: finalize multipart body: %w", err)
	}

	payload := buf.Bytes()
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions",
			bytes.NewReader(payload), mw.FormDataContentType())
	})
	if err != nil {
		return "", fmt.Errorf("openai: transcription: %w", err)
	}
	defer resp.Body.Close()

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("openai: decode transcription: %w", err)
	}

	return parsed.Text, nil
}

func audioFilename(contentType string) string {
	switch contentType {
	case "audio/mpeg", "audio/mp3":
		return "audio.mp3"
	case "audio/webm":
		return "audio.webm"
	case "audio/ogg":
		return "audio.ogg"
	case "audio/mp4", "audio/m4a":
		return "audio.m4a"
	default:
		return "audio.wav"
	}
}

func (c *OpenAIClient) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
	contentType string,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}

func (c *OpenAIClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx
// responses) with exponential backoff while respecting context cancellation.
func (c *OpenAIClient) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusTooManyRequests,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable,
				http.StatusGatewayTimeout:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
