package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/llm"
)

// Purpose labels attached to provider requests.
const (
	PurposeChat   = "chat"
	PurposeReport = "health-report"
)

// Service answers chat prompts and summarises reports.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
}

// NewService creates an assistant. provider may be nil, in which case every
// reply is the fallback.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg.withDefaults(), logger: logger}
}

// Available reports whether a provider is configured.
func (s *Service) Available() bool {
	return s.provider != nil
}

// UserName returns the name the assistant addresses.
func (s *Service) UserName() string {
	return s.cfg.UserName
}

// Reply sends text to the provider with the persona as system prompt. The
// only error is ErrEmptyPrompt; provider failures produce a fallback reply.
func (s *Service) Reply(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyPrompt
	}
	if s.provider == nil {
		return Reply{Text: s.fallbackText(), Fallback: true}, nil
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, PurposeChat), llm.Request{
		System:      s.systemPrompt(),
		Messages:    []llm.Message{llm.UserMessage(text)},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.logger.Warn("assistant reply failed", zap.String("kind", llm.FailureKind(err)), zap.Error(err))
		return Reply{Text: s.fallbackText(), Fallback: true}, nil
	}

	out := resp.Text()
	if out == "" {
		return Reply{Text: s.emptyReplyText()}, nil
	}
	return Reply{Text: out}, nil
}

// AnalyzeReport asks for a structured summary of facts, a plain-text
// rendering of the report data. Failures yield a fallback analysis.
func (s *Service) AnalyzeReport(ctx context.Context, facts string) Analysis {
	fallback := Analysis{
		Summary:        reportFallbackSummary,
		Recommendation: reportFallbackRecommendation,
		Fallback:       true,
	}
	if s.provider == nil {
		return fallback
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, PurposeReport), llm.Request{
		System:      reportPrompt,
		Messages:    []llm.Message{llm.UserMessage("Patient data:\n" + facts)},
		Schema:      HealthReportSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		s.logger.Warn("report analysis failed", zap.String("kind", llm.FailureKind(err)), zap.Error(err))
		return fallback
	}

	var a Analysis
	if err := resp.Decode(&a); err != nil {
		s.logger.Warn("decode report analysis", zap.Error(err))
		return fallback
	}
	return a
}

// InitialTranscript is the chat history shown before the first prompt.
func (s *Service) InitialTranscript(now time.Time) []Message {
	return []Message{
		{
			ID:     uuid.NewString(),
			Sender: SenderSystem,
			Text:   "Reminder: remember your calcium tablet at 2 pm!",
			At:     now,
		},
		{
			ID:     uuid.NewString(),
			Sender: SenderModel,
			Text:   "Hello " + s.cfg.UserName + "! I am your health companion. The weather is lovely today, have you been out for a walk?",
			At:     now,
		},
	}
}

// NewMessage stamps a transcript line.
func NewMessage(sender Sender, text string, at time.Time) Message {
	return Message{ID: uuid.NewString(), Sender: sender, Text: text, At: at}
}
