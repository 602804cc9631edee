package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/store"
)

// DefaultDays is the trend window.
const DefaultDays = 30

// Point is one day of a trend.
type Point struct {
	Date  string  `json:"date" yaml:"date"`
	Value float64 `json:"value" yaml:"value"`
}

// SpeechPoint summarises a day of read-aloud recordings.
type SpeechPoint struct {
	Date        string  `json:"date" yaml:"date"`
	Recordings  int     `json:"recordings" yaml:"recordings"`
	AvgDuration float64 `json:"avg_duration" yaml:"avg_duration"`
}

// Risk is the demo risk projection in percent.
type Risk struct {
	Year1 int `json:"year_1" yaml:"year_1"`
	Year3 int `json:"year_3" yaml:"year_3"`
	Year5 int `json:"year_5" yaml:"year_5"`
}

// DemoRisk is the fixed projection shown until a real model exists.
var DemoRisk = Risk{Year1: 5, Year3: 12, Year5: 20}

// Analysis is the optional AI summary attached to a report.
type Analysis struct {
	Summary        string `json:"summary" yaml:"summary"`
	Recommendation string `json:"recommendation" yaml:"recommendation"`
	Fallback       bool   `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Data is the doctor report.
type Data struct {
	GeneratedAt    time.Time     `json:"generated_at" yaml:"generated_at"`
	UserName       string        `json:"user_name" yaml:"user_name"`
	Score          int           `json:"score" yaml:"score"`
	Level          int           `json:"level" yaml:"level"`
	CognitiveTrend []Point       `json:"cognitive_trend" yaml:"cognitive_trend"`
	SleepTrend     []Point       `json:"sleep_trend" yaml:"sleep_trend"`
	ScoreTrend     []Point       `json:"score_trend" yaml:"score_trend"`
	SpeechTrend    []SpeechPoint `json:"speech_features" yaml:"speech_features"`
	Risk           Risk          `json:"risk_prediction" yaml:"risk_prediction"`
	Analysis       *Analysis     `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

// Sources are the repositories a report reads.
type Sources struct {
	Trials store.TrialRepo
	Awards store.AwardRepo
	Tasks  store.TaskRepo
}

// Options scope a report.
type Options struct {
	UserName string
	Score    int
	Now      time.Time
	Days     int
}

// Build collects the trends for the Days ending at Now.
func Build(ctx context.Context, src Sources, opts Options) (Data, error) {
	if opts.Days <= 0 {
		opts.Days = DefaultDays
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	q := store.QueryOpts{From: opts.Now.AddDate(0, 0, -opts.Days), To: opts.Now}

	data := Data{
		GeneratedAt: opts.Now,
		UserName:    opts.UserName,
		Score:       opts.Score,
		Level:       progression.LevelFor(opts.Score),
		Risk:        DemoRisk,
	}

	trials, err := src.Trials.RecentTrials(ctx, q)
	if err != nil {
		return Data{}, fmt.Errorf("load trials: %w", err)
	}
	data.CognitiveTrend = dailyMean(len(trials), func(i int) (time.Time, float64) {
		return trials[i].Timestamp, float64(trials[i].Score)
	})

	sleeps, err := src.Tasks.SleepLogs(ctx, q)
	if err != nil {
		return Data{}, fmt.Errorf("load sleep logs: %w", err)
	}
	data.SleepTrend = dailyLatest(len(sleeps), func(i int) (time.Time, float64) {
		return sleeps[i].Timestamp, sleeps[i].Hours
	})

	awards, err := src.Awards.RecentAwards(ctx, q)
	if err != nil {
		return Data{}, fmt.Errorf("load awards: %w", err)
	}
	data.ScoreTrend = dailyLatest(len(awards), func(i int) (time.Time, float64) {
		return awards[i].Timestamp, float64(awards[i].TotalAfter)
	})

	recs, err := src.Tasks.Recordings(ctx, q)
	if err != nil {
		return Data{}, fmt.Errorf("load recordings: %w", err)
	}
	data.SpeechTrend = speechTrend(recs)

	return data, nil
}

func day(t time.Time) string { return t.Local().Format(time.DateOnly) }

// dailyMean averages values per calendar day, oldest day first.
func dailyMean(n int, at func(int) (time.Time, float64)) []Point {
	sum := map[string]float64{}
	cnt := map[string]int{}
	for i := range n {
		t, v := at(i)
		d := day(t)
		sum[d] += v
		cnt[d]++
	}
	out := make([]Point, 0, len(sum))
	for d, s := range sum {
		out = append(out, Point{Date: d, Value: round2(s / float64(cnt[d]))})
	}
	sortPoints(out)
	return out
}

// dailyLatest keeps the most recent value of each day, oldest day first.
func dailyLatest(n int, at func(int) (time.Time, float64)) []Point {
	latest := map[string]time.Time{}
	val := map[string]float64{}
	for i := range n {
		t, v := at(i)
		d := day(t)
		if prev, ok := latest[d]; !ok || t.After(prev) {
			latest[d] = t
			val[d] = v
		}
	}
	out := make([]Point, 0, len(val))
	for d, v := range val {
		out = append(out, Point{Date: d, Value: v})
	}
	sortPoints(out)
	return out
}

func speechTrend(recs []store.RecordingRecord) []SpeechPoint {
	byDay := map[string]*SpeechPoint{}
	for _, r := range recs {
		d := day(r.Timestamp)
		p, ok := byDay[d]
		if !ok {
			p = &SpeechPoint{Date: d}
			byDay[d] = p
		}
		p.Recordings++
		p.AvgDuration += float64(r.Duration)
	}
	out := make([]SpeechPoint, 0, len(byDay))
	for _, p := range byDay {
		p.AvgDuration = round2(p.AvgDuration / float64(p.Recordings))
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func sortPoints(p []Point) {
	sort.Slice(p, func(i, j int) bool { return p[i].Date < p[j].Date })
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Facts renders the report as plain text for the assistant.
func (d Data) Facts() string {
	var b strings.Builder
	writeTrend := func(label string, pts []Point) {
		fmt.Fprintf(&b, "- %s:", label)
		if len(pts) == 0 {
			b.WriteString(" no data")
		}
		for _, p := range pts {
			fmt.Fprintf(&b, " %s=%g", p.Date, p.Value)
		}
		b.WriteString("\n")
	}
	writeTrend("Memory test score trend (0-5 per day)", d.CognitiveTrend)
	writeTrend("Sleep trend (hours)", d.SleepTrend)
	writeTrend("Activity score trend", d.ScoreTrend)
	fmt.Fprintf(&b, "- Read-aloud recordings: %d days\n", len(d.SpeechTrend))
	fmt.Fprintf(&b, "- Estimated risk (1y/3y/5y): %d%%, %d%%, %d%%\n", d.Risk.Year1, d.Risk.Year3, d.Risk.Year5)
	return b.String()
}

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates s.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown report format %q (want json or yaml)", s)
}

// Write encodes d to w.
func (d Data) Write(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown report format %q", f)
}
