package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/nanobanana/agent/pkg/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type client struct {
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	hc         *http.Client
}

func NewClient(apiKey, textModel, imageModel string) (*client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is empty")
	}
	return &client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		textModel:  textModel,
		imageModel: imageModel,
		hc:         &http.Client{},
	}, nil
}

// GenerateTextResponse produces a conversational reply to prompt, given the
// bounded history window and an optional attached image (as a data URI).
func (c *client) GenerateTextResponse(ctx context.Context, prompt string, history []domain.Turn, attachedImage string) (string, error) {
	contents, err := convertTurns(history)
	if err != nil {
		return "", fmt.Errorf("converting history: %w", err)
	}

	current := content{Role: roleUser}
	if prompt != "" {
		current.Parts = append(current.Parts, part{Text: prompt})
	}
	if attachedImage != "" {
		converted, err := convertPart(domain.ImagePart(attachedImage))
		if err != nil {
			return "", fmt.Errorf("converting attached image: %w", err)
		}
		current.Parts = append(current.Parts, converted)
	}
	contents = append(contents, current)

	request := generateContentRequest{Contents: contents}

	response, err := c.sendRequest(ctx, c.textModel, request)
	if err != nil {
		return "", err
	}

	for _, candidate := range response.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
	}

	return "", fmt.Errorf("no text in model response")
}

// GenerateImage renders prompt into an image and returns it as a data URI.
func (c *client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	request := generateContentRequest{
		Contents: []content{{
			Role:  roleUser,
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	}

	response, err := c.sendRequest(ctx, c.imageModel, request)
	if err != nil {
		return "", err
	}

	for _, candidate := range response.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData == nil {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return "", fmt.Errorf("decoding image payload: %w", err)
			}
			return domain.EncodeDataURL(p.InlineData.MimeType, data), nil
		}
	}

	return "", fmt.Errorf("no image in model response")
}

func (c *client) sendRequest(ctx context.Context, model string, request generateContentRequest) (*generateContentResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %v", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing HTTP request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, string(bodyBytes))
	}

	var response generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding response data: %v", err)
	}

	return &response, nil
}
