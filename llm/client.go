package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client calls the Gemini generateContent REST endpoint. It keeps no local
// state; every operation is one request/response pair with a fixed timeout.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewClient creates a new Gemini client
func NewClient(endpoint, apiKey, model string, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// generateRequest is the generateContent request body
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the generateContent response body
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends one prompt and returns the model's trimmed text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// SummarizeReport asks the model for a one-page operational summary of the
// (already size-capped) daily report. It never returns an error: failures
// degrade to a descriptive placeholder so the report endpoint stays up.
func (c *Client) SummarizeReport(ctx context.Context, report any) string {
	prompt, err := buildSummaryPrompt(report)
	if err != nil {
		logrus.Warnf("⚠️  AI summary prompt build failed: %v", err)
		return summaryUnavailable
	}

	text, err := c.Generate(ctx, prompt)
	if err != nil {
		logrus.Warnf("⚠️  AI summary generation failed: %v", err)
		return "AI 摘要產生失敗：" + err.Error()
	}
	if text == "" {
		return summaryUnavailable
	}
	return text
}

// TalkingPoint asks the model for a short staff talking point. Failures
// degrade to one fixed sentence; callers always receive usable text.
func (c *Client) TalkingPoint(ctx context.Context, topic string, products []string, reason string) string {
	text, err := c.Generate(ctx, buildTalkingPointPrompt(topic, products, reason))
	if err != nil || text == "" {
		if err != nil {
			logrus.Warnf("⚠️  talking point generation failed: %v", err)
		}
		return talkingPointFallback
	}
	return text
}

// AnalyzeInsight asks the model for a strict-JSON intent/sentiment analysis of
// one article text. Unlike the two summary operations, call failures surface
// to the caller.
func (c *Client) AnalyzeInsight(ctx context.Context, text string) (string, error) {
	result, err := c.Generate(ctx, buildInsightPrompt(text))
	if err != nil {
		return "", fmt.Errorf("AnalyzeInsight: %w", err)
	}
	return result, nil
}
