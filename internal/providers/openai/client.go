// Package openai is a lightweight facade over the hosted image and text
// endpoints so the pipeline can focus on translating domain requests to API
// calls. Only the three operations the pipeline consumes are implemented:
// image generation, masked image editing, and chat completion.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cmaker/internal/infra"
)

const defaultTimeout = 120 * time.Second

// Options controls how the client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	ImageModel string
	TextModel  string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client talks to an OpenAI-compatible API over plain HTTP.
type Client struct {
	apiKey     string
	baseURL    string
	imageModel string
	textModel  string
	httpClient *http.Client
	logger     *infra.Logger
}

// GenerateImageRequest asks for a fresh image from a prompt. Background
// "transparent" yields a PNG with an alpha channel.
type GenerateImageRequest struct {
	Prompt     string
	Size       string
	Background string
	RequestID  string
}

// EditImageRequest asks for a masked edit: only the transparent region of the
// mask may be regenerated; opaque mask pixels are protected.
type EditImageRequest struct {
	Image     []byte
	Mask      []byte
	Prompt    string
	Size      string
	RequestID string
}

// CompleteRequest asks the text model for a single completion.
type CompleteRequest struct {
	System      string
	Prompt      string
	Temperature float64
	RequestID   string
}

type imageGenerationPayload struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Size           string `json:"size,omitempty"`
	N              int    `json:"n"`
	Background     string `json:"background,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

type chatPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message,omitempty"`
		Type    string `json:"type,omitempty"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults. Callers may provide a nil
// HTTP client; a reusable one with a generation-friendly timeout is created.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	imageModel := opts.ImageModel
	if imageModel == "" {
		imageModel = "gpt-image-1"
	}
	textModel := opts.TextModel
	if textModel == "" {
		textModel = "gpt-5-nano"
	}

	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		imageModel: imageModel,
		textModel:  textModel,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// ImageModel returns the configured image model identifier.
func (c *Client) ImageModel() string { return c.imageModel }

// TextModel returns the configured text model identifier.
func (c *Client) TextModel() string { return c.textModel }

// GenerateImage creates one image from a prompt and returns the decoded
// bytes. The call blocks for the full round trip; cancellation comes from ctx.
func (c *Client) GenerateImage(ctx context.Context, req GenerateImageRequest) ([]byte, error) {
	payload := imageGenerationPayload{
		Model:      c.imageModel,
		Prompt:     req.Prompt,
		Size:       req.Size,
		N:          1,
		Background: req.Background,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("openai: encode generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.imageModel).
		Int("prompt_len", len(req.Prompt)).
		Msg("openai: image generation request")

	return c.doImageCall(httpReq)
}

// EditImage runs a masked edit over the provided canvas. Mask polarity:
// opaque pixels are protected, transparent pixels may be regenerated.
func (c *Client) EditImage(ctx context.Context, req EditImageRequest) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"model":           c.imageModel,
		"prompt":          req.Prompt,
		"size":            req.Size,
		"response_format": "b64_json",
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("openai: encode edit field %s: %w", name, err)
		}
	}

	imagePart, err := w.CreateFormFile("image", "canvas.png")
	if err != nil {
		return nil, fmt.Errorf("openai: attach canvas: %w", err)
	}
	if _, err := imagePart.Write(req.Image); err != nil {
		return nil, fmt.Errorf("openai: write canvas: %w", err)
	}

	maskPart, err := w.CreateFormFile("mask", "mask.png")
	if err != nil {
		return nil, fmt.Errorf("openai: attach mask: %w", err)
	}
	if _, err := maskPart.Write(req.Mask); err != nil {
		return nil, fmt.Errorf("openai: write mask: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("openai: finalize edit request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/edits", &buf)
	if err != nil {
		return nil, fmt.Errorf("openai: build edit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.imageModel).
		Int("prompt_len", len(req.Prompt)).
		Int("canvas_bytes", len(req.Image)).
		Int("mask_bytes", len(req.Mask)).
		Msg("openai: image edit request")

	return c.doImageCall(httpReq)
}

// Complete sends a single-turn chat request and returns the trimmed text.
func (c *Client) Complete(ctx context.Context, req CompleteRequest) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload := chatPayload{
		Model:       c.textModel,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openai: encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai: completion call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return "", c.apiError(resp)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openai: decode completion response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai: completion returned no choices")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai: completion returned empty content")
	}
	return text, nil
}

func (c *Client) doImageCall(httpReq *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai: image call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return nil, c.apiError(resp)
	}

	var out imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("openai: decode image response: %w", err)
	}
	if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("openai: image response carries no data")
	}
	raw, err := base64.StdEncoding.DecodeString(out.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai: decode image payload: %w", err)
	}
	return raw, nil
}

func (c *Client) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed apiErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return fmt.Errorf("openai: status %d: %s", resp.StatusCode, parsed.Error.Message)
	}
	return fmt.Errorf("openai: status %d", resp.StatusCode)
}
