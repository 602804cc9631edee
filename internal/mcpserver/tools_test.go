package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestStatusTool(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	tool := NewStatusTool(st.KVRepo(), progression.DefaultScore, nil)

	if def := tool.Definition(); def.Name != "progress_status" {
		t.Fatalf("tool name = %q", def.Name)
	}

	res, err := tool.Handle(ctx, makeReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(res)
	for _, want := range []string{"**Score**: 1250", "**Level**: 3", "**Progress**: 50%", "**Next level at**: 1500"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in %q", want, text)
		}
	}

	if err := st.KVRepo().Set(ctx, progression.ScoreKey, "1260"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	res, _ = tool.Handle(ctx, makeReq(nil))
	if !strings.Contains(resultText(res), "**Progress**: 52%") {
		t.Fatalf("expected persisted score, got %q", resultText(res))
	}
}

func TestTrialHistoryTool(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	tool := NewTrialHistoryTool(st.TrialRepo())

	if _, ok := tool.Definition().InputSchema.Properties["limit"]; !ok {
		t.Fatal("missing 'limit' parameter")
	}

	res, _ := tool.Handle(ctx, makeReq(nil))
	if !strings.Contains(resultText(res), "No memory tests") {
		t.Fatalf("unexpected empty result %q", resultText(res))
	}

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := range 3 {
		if err := st.TrialRepo().AppendTrial(ctx, store.TrialRecord{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			TrialID:   string(rune('a' + i)),
			TestID:    "digit_span_001",
			Score:     i + 3,
			Digits:    "12345",
			Answer:    "12345",
		}); err != nil {
			t.Fatalf("AppendTrial: %v", err)
		}
	}

	res, _ = tool.Handle(ctx, makeReq(map[string]any{"limit": float64(2)}))
	text := resultText(res)
	if !strings.Contains(text, "Memory tests (2)") {
		t.Fatalf("expected 2 results, got %q", text)
	}
	if strings.Index(text, "5/5") > strings.Index(text, "4/5") {
		t.Fatalf("expected newest first, got %q", text)
	}
}

func TestReportTool(t *testing.T) {
	st := newTestStore(t)
	tool := NewReportTool(st, "Grandpa Lin", progression.DefaultScore, nil)

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"days": float64(7)}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(res))
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(resultText(res)), &data); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if data["user_name"] != "Grandpa Lin" || data["score"] != float64(1250) {
		t.Fatalf("unexpected report %v", data)
	}
	if _, ok := data["risk_prediction"]; !ok {
		t.Fatal("missing risk_prediction")
	}
}

func TestNew_RegistersTools(t *testing.T) {
	st := newTestStore(t)
	s := New("test", Deps{Store: st, UserName: "Grandpa Lin", DefaultScore: 1250})
	tools := s.ListTools()
	for _, name := range []string{"progress_status", "trial_history", "health_report"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %q not registered", name)
		}
	}
}
