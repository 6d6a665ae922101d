// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

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

	"github.com/pdiddy/insight-engine/internal/httputil"
	"github.com/pdiddy/insight-engine/pkg/types"
)

const chatCompletionsPath = "/chat/completions"

// ChatBackend calls an OpenAI-compatible chat-completions endpoint.
type ChatBackend struct {
	Config types.LLMConfig
	Client *http.Client

	// now is stubbed in tests; the current time is prefixed to every
	// user prompt so the model knows the actual date.
	now func() time.Time
}

// NewChatBackend builds a backend with an HTTP client honoring the
// configured timeout.
func NewChatBackend(cfg types.LLMConfig) *ChatBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ChatBackend{
		Config: cfg,
		Client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user exchange and returns a typed Result.
// Rate-limited requests are retried with backoff; every other failure
// mode becomes a failed Result.
func (b *ChatBackend) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature, topP float64) Result {
	nowFn := b.now
	if nowFn == nil {
		nowFn = time.Now
	}
	timePrefix := "Current date and time: " + nowFn().Format("2006-01-02 15:04")
	if userPrompt != "" {
		userPrompt = timePrefix + "\n" + userPrompt
	} else {
		userPrompt = timePrefix
	}

	reqBody := chatRequest{
		Model:       b.Config.Model,
		Temperature: temperature,
		TopP:        topP,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Fail(fmt.Sprintf("marshaling request: %v", err))
	}

	url := strings.TrimSuffix(b.Config.BaseURL, "/") + chatCompletionsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return Fail(fmt.Sprintf("creating request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.Config.APIKey)
	if b.Config.UserAgent != "" {
		req.Header.Set("User-Agent", b.Config.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, b.Config.MaxRetries)
	if err != nil {
		return Fail(fmt.Sprintf("calling chat API: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Fail(fmt.Sprintf("chat API returned %d: %s", resp.StatusCode, string(body)))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return Fail(fmt.Sprintf("decoding chat response: %v", err))
	}

	if len(cResp.Choices) == 0 {
		return Fail("chat API returned no choices")
	}

	return Result{Success: true, Content: cResp.Choices[0].Message.Content}
}
