package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Provider is one tier of the explanation chain. Each provider is tried at
// most once per request; there is no retry or backoff.
type Provider interface {
	Name() string
	Explain(ctx context.Context, prompt string) (string, error)
}

const (
	defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"
	defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

	maxOutputTokens = 400
	temperature     = 0.4
)

type geminiProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGeminiProvider(apiKey, baseURL string, client *http.Client) Provider {
	if baseURL == "" {
		baseURL = defaultGeminiURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &geminiProvider{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) Explain(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": maxOutputTokens,
			"temperature":     temperature,
		},
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := p.post(ctx, p.baseURL+"?key="+p.apiKey, nil, payload, &result); err != nil {
		return "", err
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

func (p *geminiProvider) post(ctx context.Context, url string, headers map[string]string, payload, result interface{}) error {
	return postJSON(ctx, p.client, url, headers, payload, result)
}

type openaiProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewOpenAIProvider(apiKey, baseURL string, client *http.Client) Provider {
	if baseURL == "" {
		baseURL = defaultOpenAIURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &openaiProvider{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (p *openaiProvider) Name() string { return "openai" }

func (p *openaiProvider) Explain(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"model":       "gpt-3.5-turbo",
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"max_tokens":  maxOutputTokens,
		"temperature": temperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := postJSON(ctx, p.client, p.baseURL, headers, payload, &result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai returned empty content")
	}
	return text, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// templateProvider is the final tier: a deterministic explanation assembled
// from the input fields. It never fails.
type templateProvider struct {
	input Input
}

func (p *templateProvider) Name() string { return "template" }

func (p *templateProvider) Explain(ctx context.Context, prompt string) (string, error) {
	var meds []string
	for _, m := range p.input.Medications {
		dose := m.Dose
		if dose == "" {
			dose = "dosage as prescribed"
		}
		frequency := m.Frequency
		if frequency == "" {
			frequency = "as directed"
		}
		duration := m.Duration
		if duration == "" {
			duration = "the prescribed period"
		}
		meds = append(meds, fmt.Sprintf("%s (%s): Take %s for %s.", m.Name, dose, frequency, duration))
	}

	var b strings.Builder
	b.WriteString("This prescription includes the following medications: ")
	b.WriteString(strings.Join(meds, " "))
	if p.input.Notes != "" {
		b.WriteString(" Additional notes from your doctor: ")
		b.WriteString(p.input.Notes)
	}
	b.WriteString(" Always follow your doctor's instructions and contact them if you have questions.")
	return b.String(), nil
}
