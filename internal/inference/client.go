package inference

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// GeminiClient talks to a Gemini deployment through its OpenAI-compatible
// chat-completions endpoint. It enforces a hard per-request timeout and
// never retries; callers recover from failures via the hardener.
type GeminiClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewGeminiClient creates an inference client against the given endpoint
func NewGeminiClient(endpoint, apiKey, model string, timeout time.Duration, logger *zap.Logger) (*GeminiClient, error) {
	if endpoint == "" || apiKey == "" || model == "" {
		return nil, fmt.Errorf("endpoint, apiKey, and model are required")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", timeout)
	}

	client := openai.NewClient(
		option.WithBaseURL(endpoint),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &GeminiClient{
		client:  &client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Infer sends one structured request and returns the raw JSON object the
// model produced. Any transport failure, timeout, or non-JSON response is
// wrapped in *UnavailableError.
func (c *GeminiClient) Infer(ctx context.Context, req Request) (json.RawMessage, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, &UnavailableError{Kind: req.Kind, Err: err}
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
	}
	for _, media := range req.Media {
		part, ok := mediaContentPart(media)
		if !ok {
			c.logger.Warn("skipping unsupported media part",
				zap.String("kind", string(req.Kind)),
				zap.String("mime", media.MIME),
			)
			continue
		}
		parts = append(parts, part)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestStart := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
		Temperature: openai.Float(0.15),
	})
	requestTime := time.Since(requestStart)

	if err != nil {
		c.logger.Warn("inference request failed",
			zap.String("kind", string(req.Kind)),
			zap.Duration("request_time", requestTime),
			zap.Error(err),
		)
		return nil, &UnavailableError{Kind: req.Kind, Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &UnavailableError{Kind: req.Kind, Err: fmt.Errorf("no choices returned")}
	}

	content := resp.Choices[0].Message.Content
	raw, ok := extractJSON(content)
	if !ok {
		c.logger.Warn("inference response contained no JSON object",
			zap.String("kind", string(req.Kind)),
			zap.Int("content_length", len(content)),
		)
		return nil, &UnavailableError{Kind: req.Kind, Err: fmt.Errorf("response is not a JSON object")}
	}

	c.logger.Info("inference request completed",
		zap.String("kind", string(req.Kind)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("request_time", requestTime),
	)

	return raw, nil
}

// mediaContentPart converts a media attachment into a chat content part.
// Images ride as data URLs, audio as inline input_audio; anything else is
// unsupported.
func mediaContentPart(media MediaPart) (openai.ChatCompletionContentPartUnionParam, bool) {
	encoded := base64.StdEncoding.EncodeToString(media.Data)

	switch {
	case strings.HasPrefix(media.MIME, "image/"):
		return openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: fmt.Sprintf("data:%s;base64,%s", media.MIME, encoded),
		}), true
	case strings.HasPrefix(media.MIME, "audio/"):
		format, ok := audioFormat(media.MIME)
		if !ok {
			return openai.ChatCompletionContentPartUnionParam{}, false
		}
		return openai.InputAudioContentPart(openai.ChatCompletionContentPartInputAudioInputAudioParam{
			Data:   encoded,
			Format: format,
		}), true
	default:
		return openai.ChatCompletionContentPartUnionParam{}, false
	}
}

func audioFormat(mime string) (string, bool) {
	switch mime {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "wav", true
	case "audio/mpeg", "audio/mp3":
		return "mp3", true
	default:
		return "", false
	}
}

// extractJSON slices the outermost JSON object out of a model response,
// tolerating markdown fences and surrounding prose.
func extractJSON(content string) (json.RawMessage, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}
	candidate := content[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}

var _ Client = (*GeminiClient)(nil)
