package report

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/neurotrack/neurotrack/internal/store"
)

func TestGreeting(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 3, 2, h, 30, 0, 0, time.UTC) }
	assert.Equal(t, "Good morning", Greeting(at(0)))
	assert.Equal(t, "Good morning", Greeting(at(11)))
	assert.Equal(t, "Good afternoon", Greeting(at(12)))
	assert.Equal(t, "Good afternoon", Greeting(at(17)))
	assert.Equal(t, "Good evening", Greeting(at(18)))
}

func TestBubbles(t *testing.T) {
	tests := []struct{ score, want int }{
		{0, 0},
		{250, 17},
		{1250, 29},
		{1260, 29},
		{1499, 34},
		{1500, 26},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bubbles(tt.score), "score %d", tt.score)
	}
}

func TestNewDashboard(t *testing.T) {
	d := NewDashboard("Grandpa Lin", 1260, time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "Good afternoon", d.Greeting)
	assert.Equal(t, 3, d.Level)
	assert.Equal(t, 52.0, d.Progress)
	assert.Equal(t, 1500, d.Threshold)
}

func seed(t *testing.T) (*store.Store, time.Time) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	day1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	day2 := day1.AddDate(0, 0, 1)

	for i, s := range []struct {
		at    time.Time
		score int
	}{{day1, 3}, {day1.Add(time.Hour), 4}, {day2, 5}} {
		require.NoError(t, st.TrialRepo().AppendTrial(ctx, store.TrialRecord{
			Timestamp: s.at, TrialID: string(rune('a' + i)), TestID: "digit_span_001", Score: s.score,
		}))
	}
	require.NoError(t, st.TaskRepo().AppendSleep(ctx, store.SleepRecord{Timestamp: day1, Date: "2026-03-01", Hours: 6.5, Quality: "fair"}))
	require.NoError(t, st.TaskRepo().AppendSleep(ctx, store.SleepRecord{Timestamp: day1.Add(2 * time.Hour), Date: "2026-03-01", Hours: 7, Quality: "good"}))
	require.NoError(t, st.TaskRepo().AppendSleep(ctx, store.SleepRecord{Timestamp: day2, Date: "2026-03-02", Hours: 8, Quality: "good"}))
	require.NoError(t, st.AwardRepo().AppendAward(ctx, store.AwardRecord{Timestamp: day1, Source: "sleep_log", Points: 10, TotalAfter: 1260}))
	require.NoError(t, st.AwardRepo().AppendAward(ctx, store.AwardRecord{Timestamp: day1.Add(time.Hour), Source: "medication", Points: 10, TotalAfter: 1270}))
	require.NoError(t, st.AwardRepo().AppendAward(ctx, store.AwardRecord{Timestamp: day2, Source: "monthly_assessment", Points: 100, TotalAfter: 1370}))
	require.NoError(t, st.TaskRepo().AppendRecording(ctx, store.RecordingRecord{Timestamp: day2, TaskType: "read_sentence", Duration: 10}))
	require.NoError(t, st.TaskRepo().AppendRecording(ctx, store.RecordingRecord{Timestamp: day2.Add(time.Minute), TaskType: "read_sentence", Duration: 15}))

	return st, day2.Add(6 * time.Hour)
}

func sources(st *store.Store) Sources {
	return Sources{Trials: st.TrialRepo(), Awards: st.AwardRepo(), Tasks: st.TaskRepo()}
}

func TestBuild(t *testing.T) {
	st, now := seed(t)
	data, err := Build(context.Background(), sources(st), Options{UserName: "Grandpa Lin", Score: 1370, Now: now})
	require.NoError(t, err)

	assert.Equal(t, []Point{{"2026-03-01", 3.5}, {"2026-03-02", 5}}, data.CognitiveTrend)
	assert.Equal(t, []Point{{"2026-03-01", 7}, {"2026-03-02", 8}}, data.SleepTrend)
	assert.Equal(t, []Point{{"2026-03-01", 1270}, {"2026-03-02", 1370}}, data.ScoreTrend)
	assert.Equal(t, []SpeechPoint{{Date: "2026-03-02", Recordings: 2, AvgDuration: 12.5}}, data.SpeechTrend)
	assert.Equal(t, DemoRisk, data.Risk)
	assert.Equal(t, 3, data.Level)
}

func TestBuild_WindowExcludesOldData(t *testing.T) {
	st, now := seed(t)
	data, err := Build(context.Background(), sources(st), Options{Score: 1370, Now: now.AddDate(0, 0, 60), Days: 7})
	require.NoError(t, err)
	assert.Empty(t, data.CognitiveTrend)
	assert.Empty(t, data.SleepTrend)
	assert.Contains(t, data.Facts(), "no data")
}

func TestFacts(t *testing.T) {
	d := Data{
		SleepTrend: []Point{{"2026-03-01", 7.5}},
		Risk:       DemoRisk,
	}
	f := d.Facts()
	assert.Contains(t, f, "2026-03-01=7.5")
	assert.Contains(t, f, "5%, 12%, 20%")
}

func TestWrite(t *testing.T) {
	d := Data{
		UserName:   "Grandpa Lin",
		Score:      1260,
		SleepTrend: []Point{{"2026-03-01", 8}},
		Risk:       DemoRisk,
		Analysis:   &Analysis{Summary: "Stable.", Recommendation: "Keep walking."},
	}

	var jb bytes.Buffer
	require.NoError(t, d.Write(&jb, FormatJSON))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jb.Bytes(), &decoded))
	assert.Equal(t, float64(20), decoded["risk_prediction"].(map[string]any)["year_5"])
	assert.Equal(t, "Stable.", decoded["analysis"].(map[string]any)["summary"])

	var yb bytes.Buffer
	require.NoError(t, d.Write(&yb, FormatYAML))
	var back Data
	require.NoError(t, yaml.Unmarshal(yb.Bytes(), &back))
	assert.Equal(t, d.SleepTrend, back.SleepTrend)
	assert.True(t, strings.Contains(yb.String(), "year_1: 5"))

	assert.Error(t, d.Write(&yb, Format("csv")))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
