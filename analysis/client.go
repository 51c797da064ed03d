// Package analysis calls the language model that turns an uploaded document
// into a structured geospatial briefing, then validates the response into
// the shared result shape.
package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"go-disasterai/ingest"
	"go-disasterai/types"
)

const (
	maxTokens     = 4096
	maxAttempts   = 3
	retryBaseWait = 2 * time.Second

	// Decoded text documents are truncated before prompting; anything past
	// this adds cost without adding locations.
	maxInlineTextBytes = 100_000
)

// Client performs document analysis against the OpenAI API.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a client for the given key and model. Model may be empty,
// which selects GPT-4o.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = openai.GPT4o
	}
	return &Client{api: openai.NewClient(apiKey), model: model}
}

// NewClientFromEnv reads OPENAI_API_KEY and OPENAI_MODEL. Returns nil when
// no key is configured; callers treat a nil client as analysis-disabled and
// run on fallback data.
func NewClientFromEnv() *Client {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		log.Println("analysis: OPENAI_API_KEY not set, model analysis disabled")
		return nil
	}
	return NewClient(key, os.Getenv("OPENAI_MODEL"))
}

// Model reports the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return "disabled"
	}
	return c.model
}

// Analyze runs one document through the model and returns a normalized
// result. Transient API failures are retried with exponential backoff. A nil
// client always errors, which the ingestion gate converts to fallback data.
func (c *Client) Analyze(ctx context.Context, req types.AnalysisRequest, taskID, documentID string) (types.AnalysisResult, error) {
	if c == nil {
		return types.AnalysisResult{}, fmt.Errorf("analysis client not configured")
	}
	start := time.Now()

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			c.userMessage(req),
		},
		MaxTokens: maxTokens,
	}

	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err = c.api.CreateChatCompletion(ctx, chatReq)
		if err == nil {
			break
		}
		if attempt == maxAttempts || ctx.Err() != nil {
			return types.AnalysisResult{}, fmt.Errorf("chat completion: %w", err)
		}
		wait := retryBaseWait << (attempt - 1)
		log.Printf("analysis: attempt %d failed for task %s, retrying in %v: %v", attempt, taskID, wait, err)
		select {
		case <-ctx.Done():
			return types.AnalysisResult{}, ctx.Err()
		case <-time.After(wait):
		}
	}

	if len(resp.Choices) == 0 {
		return types.AnalysisResult{}, fmt.Errorf("chat completion returned no choices")
	}

	raw, err := ParseModelResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	return ingest.Normalize(raw, taskID, documentID, time.Since(start).Milliseconds(), c.model), nil
}

// userMessage shapes the document for the chat API. Images travel as inline
// data URIs; everything else is decoded and inlined as text.
func (c *Client) userMessage(req types.AnalysisRequest) openai.ChatCompletionMessage {
	prompt := AnalysisPrompt(req.AnalysisMode)

	if strings.HasPrefix(req.MimeType, "image/") {
		return openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    fmt.Sprintf("data:%s;base64,%s", req.MimeType, req.DocumentData),
						Detail: openai.ImageURLDetailHigh,
					},
				},
			},
		}
	}

	text := req.DocumentData
	if decoded, err := base64.StdEncoding.DecodeString(req.DocumentData); err == nil {
		text = string(decoded)
	}
	if len(text) > maxInlineTextBytes {
		text = text[:maxInlineTextBytes]
	}
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt + "\n\nDOCUMENT:\n" + text,
	}
}
