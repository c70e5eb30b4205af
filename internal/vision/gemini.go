package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGeminiModel = "gemini-2.0-flash-exp"

// wasteInstruction is the fixed prompt sent alongside every image.
const wasteInstruction = `Analyze this waste item image and classify it into one of these categories: ` +
	`recyclables (plastic, glass, metal, paper), compostables (organic/food waste), general waste, ` +
	`hazardous materials (chemicals, batteries), or electronics waste (phones, computers, devices). ` +
	`Provide a brief description of what you see and why it belongs in that category. Be specific and concise.`

// geminiClient implements the Client interface against the Gemini
// generateContent API.
type geminiClient struct {
	httpClient *http.Client
	model      string
}

// newGeminiClient creates a Gemini API client. The credential is supplied per
// call, not at construction, because each caller brings their own key.
func newGeminiClient(cfg GatewayConfig) *geminiClient {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &geminiClient{
		model: model,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// DescribeWaste sends the image inline and returns the model's text reply.
func (c *geminiClient) DescribeWaste(ctx context.Context, img Image, credential string) (string, error) {
	requestBody := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": wasteInstruction},
					{
						"inline_data": map[string]any{
							"mime_type": img.MIMEType,
							"data":      base64.StdEncoding.EncodeToString(img.Data),
						},
					},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		c.model, credential)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    parseGeminiError(body),
		}
	}

	var response geminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return response.Candidates[0].Content.Parts[0].Text, nil
}

// parseGeminiError extracts the provider's message from an error body,
// falling back to the raw body when it isn't the documented shape.
func parseGeminiError(body []byte) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// geminiResponse is the subset of the generateContent reply we consume.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}
