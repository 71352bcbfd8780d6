// Package backend provides the HTTP adapter for the remote
// knowledge/chat service.
// Clean Architecture: Adapter implementing ports.ChatService and
// ports.KnowledgeService. It knows the wire contract; the domain doesn't.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/docchat/docchat/internal/domain/entities"
	"github.com/docchat/docchat/internal/domain/ports"
	"github.com/docchat/docchat/internal/infrastructure/logging"
)

// Client talks to the remote service over HTTP. The base address is the
// only external configuration point and is always injected.
type Client struct {
	baseURL string
	client  *http.Client
	log     *logging.Logger
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, log *logging.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

// chatMessage is one history entry on the wire.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the chat endpoint request body.
type chatRequest struct {
	Message string        `json:"message"`
	History []chatMessage `json:"history,omitempty"`
}

// chatResponse accepts both reply shapes the service is known to emit:
// {"reply": ...} and {"response": ..., "sources": [...]}.
type chatResponse struct {
	Reply    string              `json:"reply"`
	Response string              `json:"response"`
	Sources  []entities.Citation `json:"sources"`
}

// Send submits a chat message and returns the normalized reply.
func (c *Client) Send(ctx context.Context, message string, history []entities.Turn) (*entities.ChatReply, error) {
	reqBody := chatRequest{Message: message}
	for _, turn := range history {
		reqBody.History = append(reqBody.History, chatMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: chat returned status %d", ports.ErrBadReply, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("%w: decoding chat response: %v", ports.ErrBadReply, err)
	}

	text := chatResp.Reply
	if text == "" {
		text = chatResp.Response
	}
	if text == "" {
		return nil, fmt.Errorf("%w: chat response missing reply field", ports.ErrBadReply)
	}

	c.log.Debug("chat reply received", "sources", len(chatResp.Sources))
	return &entities.ChatReply{Text: text, Sources: chatResp.Sources}, nil
}

// UploadText submits pasted knowledge text form-encoded.
func (c *Client) UploadText(ctx context.Context, text string) error {
	form := url.Values{"text": {text}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, "upload")
}

// UploadFile submits a document as multipart form data.
func (c *Client) UploadFile(ctx context.Context, filename string, content io.Reader) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("creating multipart field: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("reading file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/pdf", &body)
	if err != nil {
		return fmt.Errorf("creating file upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, "upload/pdf")
}

// UploadURL submits a web address as JSON.
func (c *Client) UploadURL(ctx context.Context, address string) error {
	jsonData, err := json.Marshal(map[string]string{"url": address})
	if err != nil {
		return fmt.Errorf("marshaling url request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/url", bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("creating url upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "upload/url")
}

// do executes an ingestion request. Success bodies are ignored per the
// service contract; only the status class matters.
func (c *Client) do(req *http.Request, endpoint string) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned status %d", ports.ErrBadReply, endpoint, resp.StatusCode)
	}

	c.log.Debug("ingestion accepted", "endpoint", endpoint)
	return nil
}
