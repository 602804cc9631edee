package sleep

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/sched"
	"github.com/neurotrack/neurotrack/internal/store"
)

type award struct {
	source string
	points int
}

type fakeAwarder struct {
	awards []award
	err    error
}

func (f *fakeAwarder) AwardPoints(_ context.Context, source string, points int) error {
	f.awards = append(f.awards, award{source, points})
	return f.err
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestHours(t *testing.T) {
	tests := []struct {
		sleep, wake string
		want        float64
	}{
		{"23:00", "07:00", 8},
		{"22:30", "06:15", 7.75},
		{"07:00", "07:00", 24},
		{"01:00", "06:20", 5.33},
		{"13:10", "14:00", 0.83},
	}
	for _, tt := range tests {
		got, err := Hours(tt.sleep, tt.wake)
		if err != nil {
			t.Fatalf("Hours(%s, %s): %v", tt.sleep, tt.wake, err)
		}
		if got != tt.want {
			t.Errorf("Hours(%s, %s) = %v, want %v", tt.sleep, tt.wake, got, tt.want)
		}
	}
}

func TestHours_Invalid(t *testing.T) {
	for _, pair := range [][2]string{{"25:00", "07:00"}, {"23:00", "7am"}, {"", "07:00"}} {
		if _, err := Hours(pair[0], pair[1]); err == nil {
			t.Errorf("Hours(%q, %q): expected error", pair[0], pair[1])
		}
	}
}

func TestParseQuality(t *testing.T) {
	for _, q := range Qualities {
		got, err := ParseQuality(string(q))
		if err != nil || got != q {
			t.Fatalf("ParseQuality(%q) = %q, %v", q, got, err)
		}
	}
	if _, err := ParseQuality("great"); err == nil {
		t.Fatal("expected error for unknown quality")
	}
}

func TestSave_PersistsAndAwards(t *testing.T) {
	st := openStore(t)
	clock := sched.NewVirtual(time.Date(2026, 3, 2, 8, 15, 0, 0, time.UTC))
	aw := &fakeAwarder{}
	log := NewLog(st.TaskRepo(), clock, aw, nil)

	rec, err := log.Save(context.Background(), Entry{SleepAt: "22:30", WakeAt: "06:15"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.Hours != 7.75 || rec.Quality != string(Good) || rec.Date != "2026-03-02" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(aw.awards) != 1 || aw.awards[0] != (award{progression.SourceSleepLog, AwardPoints}) {
		t.Fatalf("unexpected awards %+v", aw.awards)
	}

	recent, err := log.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 || recent[0].SleepStart != "22:30" || recent[0].SleepEnd != "06:15" {
		t.Fatalf("unexpected stored logs %+v", recent)
	}
}

func TestSave_RejectsBadInput(t *testing.T) {
	st := openStore(t)
	aw := &fakeAwarder{}
	log := NewLog(st.TaskRepo(), sched.NewVirtual(time.Now()), aw, nil)

	if _, err := log.Save(context.Background(), Entry{SleepAt: "23:00", WakeAt: "07:00", Quality: "superb"}); err == nil {
		t.Fatal("expected quality error")
	}
	if _, err := log.Save(context.Background(), Entry{SleepAt: "late", WakeAt: "07:00"}); err == nil {
		t.Fatal("expected time error")
	}
	if len(aw.awards) != 0 {
		t.Fatal("rejected entries must not award points")
	}
}

func TestSave_AwardFailureIsNotFatal(t *testing.T) {
	st := openStore(t)
	aw := &fakeAwarder{err: errors.New("kv down")}
	log := NewLog(st.TaskRepo(), sched.NewVirtual(time.Now()), aw, nil)

	if _, err := log.Save(context.Background(), Entry{SleepAt: "23:00", WakeAt: "07:00", Quality: Poor}); err != nil {
		t.Fatalf("award failure should not fail the save: %v", err)
	}
}
