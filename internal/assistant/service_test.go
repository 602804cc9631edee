package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/neurotrack/neurotrack/internal/llm"
)

func TestReply_EmptyPromptNeverCallsProvider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("hi"))
	svc := NewService(mock, Config{}, nil)

	for _, in := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Reply(context.Background(), in); !errors.Is(err, ErrEmptyPrompt) {
			t.Fatalf("Reply(%q): expected ErrEmptyPrompt, got %v", in, err)
		}
	}
	if mock.CallCount() != 0 {
		t.Fatalf("provider called %d times", mock.CallCount())
	}
}

func TestReply_SendsPersonaAndText(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("Lovely to hear, Grandpa Lin!"))
	svc := NewService(mock, Config{}, nil)

	r, err := svc.Reply(context.Background(), "  I walked to the park.  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Fallback || r.Text != "Lovely to hear, Grandpa Lin!" {
		t.Fatalf("unexpected reply %+v", r)
	}

	req, _ := mock.LastRequest()
	if !strings.Contains(req.System, "Grandpa Lin") || !strings.Contains(req.System, "100 words") {
		t.Fatalf("persona missing from system prompt: %q", req.System)
	}
	if len(req.Messages) != 1 || req.Messages[0].Content != "I walked to the park." {
		t.Fatalf("unexpected messages %+v", req.Messages)
	}
	if req.Schema != nil {
		t.Fatal("chat replies are free text")
	}
}

func TestReply_CustomPersonaAndName(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("ok"))
	svc := NewService(mock, Config{UserName: "Auntie Mei", Persona: "Talk kindly to {name}."}, nil)

	if _, err := svc.Reply(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req, _ := mock.LastRequest()
	if req.System != "Talk kindly to Auntie Mei." {
		t.Fatalf("unexpected system prompt %q", req.System)
	}
}

func TestReply_Fallbacks(t *testing.T) {
	tests := []struct {
		name         string
		provider     llm.Provider
		cfg          Config
		wantText     string
		wantFallback bool
	}{
		{
			name:         "provider error",
			provider:     llm.NewMockProvider(llm.MockResponse{Err: errors.New("network down")}),
			wantText:     "Sorry Grandpa Lin, I seem to have lost the connection. Could you say that again?",
			wantFallback: true,
		},
		{
			name:         "configured fallback",
			provider:     llm.NewMockProvider(),
			cfg:          Config{Fallback: "Please try again later."},
			wantText:     "Please try again later.",
			wantFallback: true,
		},
		{
			name:         "no provider",
			wantText:     "Sorry Grandpa Lin, I seem to have lost the connection. Could you say that again?",
			wantFallback: true,
		},
		{
			name:     "empty reply",
			provider: llm.NewMockProvider(llm.MockText("  ")),
			wantText: "I got your message, Grandpa Lin. You are doing wonderfully!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.provider, tt.cfg, nil)
			r, err := svc.Reply(context.Background(), "How am I doing?")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Text != tt.wantText || r.Fallback != tt.wantFallback {
				t.Fatalf("got %+v, want text %q fallback %v", r, tt.wantText, tt.wantFallback)
			}
		})
	}
}

func TestAnalyzeReport(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"summary":"Sleep is steady and memory scores are stable.","recommendation":"Keep the evening walk."}`),
	})
	svc := NewService(mock, Config{}, nil)

	a := svc.AnalyzeReport(context.Background(), "sleep: 7.5h")
	if a.Fallback {
		t.Fatal("unexpected fallback")
	}
	if a.String() != "Sleep is steady and memory scores are stable. Keep the evening walk." {
		t.Fatalf("unexpected analysis %q", a.String())
	}
	req, _ := mock.LastRequest()
	if req.Schema != HealthReportSchema {
		t.Fatal("expected the health report schema")
	}
	if !strings.Contains(req.Messages[0].Content, "sleep: 7.5h") {
		t.Fatalf("facts missing from request: %q", req.Messages[0].Content)
	}
}

func TestAnalyzeReport_FallbackOnInvalidOutput(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"summary":"only"}`)})
	a := NewService(mock, Config{}, nil).AnalyzeReport(context.Background(), "x")
	if !a.Fallback || a.Summary != reportFallbackSummary {
		t.Fatalf("expected fallback analysis, got %+v", a)
	}

	if a := NewService(nil, Config{}, nil).AnalyzeReport(context.Background(), "x"); !a.Fallback {
		t.Fatal("expected fallback without provider")
	}
}

func TestInitialTranscript(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	msgs := NewService(nil, Config{UserName: "Auntie Mei"}, nil).InitialTranscript(now)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Sender != SenderSystem || !strings.Contains(msgs[0].Text, "calcium") {
		t.Fatalf("unexpected reminder %+v", msgs[0])
	}
	if msgs[1].Sender != SenderModel || !strings.Contains(msgs[1].Text, "Auntie Mei") {
		t.Fatalf("unexpected welcome %+v", msgs[1])
	}
	if msgs[0].ID == msgs[1].ID || !msgs[1].At.Equal(now) {
		t.Fatal("messages need distinct IDs and the given timestamp")
	}
}
