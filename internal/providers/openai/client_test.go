package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
)

type responseStub struct {
	status int
	body   []byte
}

type captureTransport struct {
	responses map[string]responseStub
	lastBody  []byte
	lastReq   *http.Request
}

func (t *captureTransport) setJSONResponse(path string, payload any) {
	body, _ := json.Marshal(payload)
	if t.responses == nil {
		t.responses = map[string]responseStub{}
	}
	t.responses[path] = responseStub{status: http.StatusOK, body: body}
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.lastReq = req
	if req.Body != nil {
		t.lastBody, _ = io.ReadAll(req.Body)
	}
	stub, ok := t.responses[req.URL.Path]
	if !ok {
		stub = responseStub{status: http.StatusNotFound, body: []byte(`{}`)}
	}
	return &http.Response{
		StatusCode: stub.status,
		Body:       io.NopCloser(bytes.NewReader(stub.body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func newTestClient(t *testing.T, transport *captureTransport) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIKey:     "test",
		BaseURL:    "https://api.test.local/v1",
		ImageModel: "gpt-image-1",
		TextModel:  "gpt-5-nano",
		HTTPClient: &http.Client{Transport: transport},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestGenerateImageDecodesPayload(t *testing.T) {
	transport := &captureTransport{}
	raw := []byte{0x89, 'P', 'N', 'G'}
	transport.setJSONResponse("/v1/images/generations", map[string]any{
		"data": []any{map[string]any{"b64_json": base64.StdEncoding.EncodeToString(raw)}},
	})
	client := newTestClient(t, transport)

	data, err := client.GenerateImage(context.Background(), GenerateImageRequest{
		Prompt:     "a water bottle, transparent background",
		Size:       "1024x1024",
		Background: "transparent",
		RequestID:  "req-1",
	})
	if err != nil {
		t.Fatalf("generate image: %v", err)
	}
	if !bytes.Equal(data, raw) {
		t.Fatalf("decoded bytes mismatch: %v", data)
	}

	var payload map[string]any
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("captured body not JSON: %v", err)
	}
	if payload["model"] != "gpt-image-1" {
		t.Fatalf("model = %v, want gpt-image-1", payload["model"])
	}
	if payload["background"] != "transparent" {
		t.Fatalf("background = %v, want transparent", payload["background"])
	}
	if auth := transport.lastReq.Header.Get("Authorization"); auth != "Bearer test" {
		t.Fatalf("authorization = %q", auth)
	}
}

func TestEditImageSendsMultipartMask(t *testing.T) {
	transport := &captureTransport{}
	transport.setJSONResponse("/v1/images/edits", map[string]any{
		"data": []any{map[string]any{"b64_json": base64.StdEncoding.EncodeToString([]byte{1, 2})}},
	})
	client := newTestClient(t, transport)

	_, err := client.EditImage(context.Background(), EditImageRequest{
		Image:     []byte{0xca, 0xfe},
		Mask:      []byte{0xbe, 0xef},
		Prompt:    "extend the background",
		Size:      "1024x1024",
		RequestID: "req-2",
	})
	if err != nil {
		t.Fatalf("edit image: %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(transport.lastReq.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("content type = %q (%v)", mediaType, err)
	}

	reader := multipart.NewReader(bytes.NewReader(transport.lastBody), params["boundary"])
	parts := map[string][]byte{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		data, _ := io.ReadAll(part)
		parts[part.FormName()] = data
	}

	if !bytes.Equal(parts["image"], []byte{0xca, 0xfe}) {
		t.Fatalf("image part mismatch: %v", parts["image"])
	}
	if !bytes.Equal(parts["mask"], []byte{0xbe, 0xef}) {
		t.Fatalf("mask part mismatch: %v", parts["mask"])
	}
	if string(parts["response_format"]) != "b64_json" {
		t.Fatalf("response_format = %q", parts["response_format"])
	}
	if string(parts["prompt"]) != "extend the background" {
		t.Fatalf("prompt = %q", parts["prompt"])
	}
}

func TestCompleteReturnsTrimmedContent(t *testing.T) {
	transport := &captureTransport{}
	transport.setJSONResponse("/v1/chat/completions", map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"content": "  Erfrische dein Leben  "}}},
	})
	client := newTestClient(t, transport)

	text, err := client.Complete(context.Background(), CompleteRequest{
		Prompt:    "translate this",
		RequestID: "req-3",
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "Erfrische dein Leben" {
		t.Fatalf("text = %q", text)
	}
}

func TestImageCallSurfacesAPIError(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{
		"/v1/images/generations": {
			status: http.StatusBadRequest,
			body:   []byte(`{"error":{"message":"prompt too long"}}`),
		},
	}}
	client := newTestClient(t, transport)

	_, err := client.GenerateImage(context.Background(), GenerateImageRequest{Prompt: "x"})
	if err == nil || !strings.Contains(err.Error(), "prompt too long") {
		t.Fatalf("err = %v, want api message surfaced", err)
	}
}

func TestImageCallRejectsEmptyData(t *testing.T) {
	transport := &captureTransport{}
	transport.setJSONResponse("/v1/images/generations", map[string]any{"data": []any{}})
	client := newTestClient(t, transport)

	if _, err := client.GenerateImage(context.Background(), GenerateImageRequest{Prompt: "x"}); err == nil {
		t.Fatalf("expected error for empty data")
	}
}
