package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/report"
	"github.com/neurotrack/neurotrack/internal/store"
)

// intArg extracts an integer argument; JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string, def int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return def
	}
	return int(v)
}

// StatusTool handles progress_status.
type StatusTool struct {
	kv           progression.KV
	defaultScore int
	logger       *zap.Logger
}

func NewStatusTool(kv progression.KV, defaultScore int, logger *zap.Logger) *StatusTool {
	return &StatusTool{kv: kv, defaultScore: defaultScore, logger: logger}
}

func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("progress_status",
		mcp.WithDescription("Current score, level, progress through the level in percent, and the score needed for the next level."),
	)
}

func (t *StatusTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	score := progression.ReadScore(ctx, t.kv, t.defaultScore, t.logger)

	var sb strings.Builder
	sb.WriteString("## Progress\n\n")
	fmt.Fprintf(&sb, "- **Score**: %d\n", score)
	fmt.Fprintf(&sb, "- **Level**: %d\n", progression.LevelFor(score))
	fmt.Fprintf(&sb, "- **Progress**: %.0f%%\n", progression.ProgressFor(score))
	fmt.Fprintf(&sb, "- **Next level at**: %d\n", progression.ThresholdFor(score))
	return mcp.NewToolResultText(sb.String()), nil
}

// TrialHistoryTool handles trial_history.
type TrialHistoryTool struct {
	trials store.TrialRepo
}

func NewTrialHistoryTool(trials store.TrialRepo) *TrialHistoryTool {
	return &TrialHistoryTool{trials: trials}
}

func (t *TrialHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("trial_history",
		mcp.WithDescription("Recent digit-span memory test results, newest first. Scores range from 0 to 5."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 10)"),
		),
	)
}

func (t *TrialHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := intArg(req, "limit", 10)
	if limit <= 0 {
		limit = 10
	}
	recs, err := t.trials.RecentTrials(ctx, store.QueryOpts{Limit: limit})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load trials: %v", err)), nil
	}
	if len(recs) == 0 {
		return mcp.NewToolResultText("No memory tests recorded yet."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Memory tests (%d)\n\n", len(recs))
	for _, r := range recs {
		fmt.Fprintf(&sb, "- %s: %d/5 in %.1fs (shown %s, answered %q)\n",
			r.Timestamp.Local().Format("2006-01-02 15:04"), r.Score, r.ResponseTime, r.Digits, r.Answer)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ReportTool handles health_report.
type ReportTool struct {
	st           *store.Store
	userName     string
	defaultScore int
	logger       *zap.Logger
}

func NewReportTool(st *store.Store, userName string, defaultScore int, logger *zap.Logger) *ReportTool {
	return &ReportTool{st: st, userName: userName, defaultScore: defaultScore, logger: logger}
}

func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("health_report",
		mcp.WithDescription("Doctor report as JSON: daily memory, sleep, score and speech trends plus the risk projection."),
		mcp.WithNumber("days",
			mcp.Description("Trend window in days (default 30)"),
		),
	)
}

func (t *ReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	score := progression.ReadScore(ctx, t.st.KVRepo(), t.defaultScore, t.logger)
	data, err := report.Build(ctx, report.Sources{
		Trials: t.st.TrialRepo(),
		Awards: t.st.AwardRepo(),
		Tasks:  t.st.TaskRepo(),
	}, report.Options{
		UserName: t.userName,
		Score:    score,
		Now:      time.Now(),
		Days:     intArg(req, "days", report.DefaultDays),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build report: %v", err)), nil
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
