package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// LiveResponder generates replies through an Azure OpenAI chat-completions
// deployment. Failures never surface to the caller as errors; they are
// logged and translated into the fixed apology replies, so a broken
// upstream degrades the conversation rather than the request.
type LiveResponder struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	catalog    Catalog
	client     *http.Client
}

// NewLiveResponder builds a responder against the given Azure OpenAI
// resource. The timeout bounds each completion call end to end.
func NewLiveResponder(endpoint, apiKey, deployment, apiVersion string, catalog Catalog, timeout time.Duration) *LiveResponder {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LiveResponder{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		deployment: deployment,
		apiVersion: apiVersion,
		catalog:    catalog,
		client:     &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	TopP             float64       `json:"top_p"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
	MaxTokens        int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// complete runs one chat completion with the fixed sampling parameters and
// returns the first choice's content, trimmed.
func (l *LiveResponder) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:      0.7,
		TopP:             0.95,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
		MaxTokens:        1500,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	u := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		l.endpoint, url.PathEscape(l.deployment), url.QueryEscape(l.apiVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", l.apiKey)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode completion response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != nil {
			return "", fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("completion endpoint returned %d", resp.StatusCode)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("completion response carried no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// CompetencyEvaluation asks the deployment for a competency evaluation of
// the message. Any failure yields the evaluation apology.
func (l *LiveResponder) CompetencyEvaluation(ctx context.Context, message string) string {
	reply, err := l.complete(ctx, buildEvaluationSystemPrompt(l.catalog), buildEvaluationUserPrompt(message))
	if err != nil {
		log.Error().Err(err).Msg("competency evaluation completion failed")
		return evaluationApology
	}
	return reply
}

// GeneralResponse asks the deployment for an open-conversation reply. Any
// failure yields the general apology.
func (l *LiveResponder) GeneralResponse(ctx context.Context, message string) string {
	reply, err := l.complete(ctx, buildGeneralSystemPrompt(l.catalog), message)
	if err != nil {
		log.Error().Err(err).Msg("general completion failed")
		return generalApology
	}
	return reply
}
