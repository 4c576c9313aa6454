// Package advisor is the conversational side of the app: the persona
// prompts, the chat and diary insight calls to the LLM, and the AI usage quota.
package advisor

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"amomaster/tools"

	"go.uber.org/zap"
)

// Provider names who produced a Reply.
type Provider string

const (
	ProviderAPI  Provider = "api"
	ProviderMock Provider = "mock"
)

// Label is the display name of the provider.
func (p Provider) Label() string {
	if p == ProviderAPI {
		return "OpenAI GPT-4o-mini"
	}
	return "デモモード"
}

type Reply struct {
	Text     string   `json:"response"`
	Provider Provider `json:"provider"`
}

// ContextSource renders the RAG context for a question.
type ContextSource interface {
	Build(ctx context.Context, userID int64, query string) string
}

const (
	DefaultTemperature    = 0.7
	DefaultMaxTokens      = 512
	DiaryInsightMaxTokens = 150
)

type Options struct {
	Temperature float32
	MaxTokens   int
}

// Service answers chat messages and writes diary insights. A nil client is
// valid: chat then always answers with a mock reply.
type Service struct {
	contexts    ContextSource
	client      tools.ChatClient
	logger      *zap.Logger
	temperature float32
	maxTokens   int
	pick        func(n int) int
}

func NewService(contexts ContextSource, client tools.ChatClient, logger *zap.Logger, opts Options) *Service {
	if opts.Temperature <= 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &Service{
		contexts:    contexts,
		client:      client,
		logger:      logger.Named("advisor"),
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		pick:        rand.Intn,
	}
}

// Enabled reports whether replies can come from the model.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// SendMessage answers message with the user's records as context. It never
// fails: any model problem degrades to a mock reply.
func (s *Service) SendMessage(ctx context.Context, userID int64, message, nickname string) Reply {
	ragContext := s.contexts.Build(ctx, userID, message)
	s.logger.Debug("rag context built",
		zap.Int64("user_id", userID),
		zap.Int("context_len", len(ragContext)))

	if s.client == nil {
		return s.mockReply(message)
	}

	text, err := s.client.Complete(ctx, tools.ChatRequest{
		SystemPrompt: MasterSystemPrompt(nickname),
		Prompt:       chatPrompt(ragContext, message),
		Temperature:  s.temperature,
		MaxTokens:    s.maxTokens,
	})
	if err != nil {
		s.logger.Warn("chat completion failed, answering with mock",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return s.mockReply(message)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return s.mockReply(message)
	}
	return Reply{Text: text, Provider: ProviderAPI}
}

func (s *Service) mockReply(message string) Reply {
	replies := mockResponses(message)
	return Reply{Text: replies[s.pick(len(replies))], Provider: ProviderMock}
}

// DiaryInsight writes a two or three sentence comment on a diary entry.
func (s *Service) DiaryInsight(ctx context.Context, content, mood string) (string, error) {
	if s.client == nil {
		return "", tools.ErrNoAPIKey
	}
	text, err := s.client.Complete(ctx, tools.ChatRequest{
		SystemPrompt: DiaryInsightPrompt,
		Prompt:       diaryUserPrompt(content, mood),
		Temperature:  s.temperature,
		MaxTokens:    DiaryInsightMaxTokens,
	})
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", tools.ErrEmptyReply
	}
	return text, nil
}

// IsPermanent reports whether retrying a failed insight cannot help.
func IsPermanent(err error) bool {
	return errors.Is(err, tools.ErrNoAPIKey)
}
