package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MaxImageBytes caps the raw image payload accepted by Describe.
const MaxImageBytes = 10 << 20 // 10 MB

const defaultBaseURL = "https://api.openai.com/v1"

const describePrompt = "Describe this asset image in detail, including its condition, appearance, and any notable features. Be specific about the type of device, its physical state, and any visible characteristics."

var (
	ErrNotConfigured = errors.New("vision: api key not configured")
	ErrImageTooLarge = fmt.Errorf("vision: image exceeds %d bytes", MaxImageBytes)
)

// Client calls the OpenAI chat-completions API to caption asset images.
type Client struct {
	APIKey  string
	Model   string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = "gpt-4o"
	}
	return &Client{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NormalizeFormat maps a declared image format onto the accepted set.
// JPEG and PNG are recognized; anything else defaults to PNG.
func NormalizeFormat(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "jpeg"
	default:
		return "png"
	}
}

// Describe sends the image inline as a data URL and returns the model's
// free-text description.
func (c *Client) Describe(ctx context.Context, image []byte, format string) (string, error) {
	if c == nil || c.APIKey == "" {
		return "", ErrNotConfigured
	}
	if len(image) > MaxImageBytes {
		return "", ErrImageTooLarge
	}

	dataURL := "data:image/" + NormalizeFormat(format) + ";base64," + base64.StdEncoding.EncodeToString(image)
	reqBody := chatRequest{
		Model:     c.Model,
		MaxTokens: 300,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: describePrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			},
		}},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("vision: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("vision: unexpected response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("vision: upstream error: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("vision: upstream status %d", res.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("vision: empty response")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
