// Package medication is the daily medication checklist.
package medication

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/sched"
	"github.com/neurotrack/neurotrack/internal/store"
)

// AwardPoints is granted the first time a drug is marked taken on a day.
const AwardPoints = 10

// ErrUnknownDrug is returned by MarkTaken for an id not on the list.
var ErrUnknownDrug = errors.New("medication: unknown drug")

// Period is the time of day a drug is taken.
type Period string

const (
	Morning Period = "morning"
	Noon    Period = "noon"
	Evening Period = "evening"
	Bedtime Period = "bedtime"
)

// Periods lists the periods in display order.
var Periods = []Period{Morning, Noon, Evening, Bedtime}

// ParsePeriod validates s.
func ParsePeriod(s string) (Period, error) {
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown medication period %q", s)
}

// Label is the display name.
func (p Period) Label() string {
	switch p {
	case Morning:
		return "After breakfast"
	case Noon:
		return "After lunch"
	case Evening:
		return "After dinner"
	case Bedtime:
		return "Before bed"
	}
	return string(p)
}

// Drug is one checklist entry.
type Drug struct {
	ID     string
	Name   string
	Dosage string
	Period Period
	Taken  bool
}

// NewDrug builds a drug whose ID is derived from its name and period.
func NewDrug(name, dosage string, period Period) Drug {
	return Drug{ID: slug(string(period) + "-" + name), Name: name, Dosage: dosage, Period: period}
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// DefaultDrugs is the list used when none is configured.
func DefaultDrugs() []Drug {
	return []Drug{
		NewDrug("Blood pressure tablet", "1 tablet", Morning),
		NewDrug("Vitamin B", "1 tablet", Morning),
		NewDrug("Calcium", "500mg", Noon),
	}
}

// Group is the drugs of one period.
type Group struct {
	Period   Period
	Drugs    []Drug
	Complete bool
}

// Awarder receives the completion award.
type Awarder interface {
	AwardPoints(ctx context.Context, source string, points int) error
}

// Checklist tracks which drugs were taken today. It is not safe for
// concurrent use.
type Checklist struct {
	repo    store.TaskRepo
	clock   sched.Scheduler
	awarder Awarder
	logger  *zap.Logger

	drugs []Drug
	day   string
}

// NewChecklist creates a checklist over drugs. Call Load to restore today's
// state.
func NewChecklist(drugs []Drug, repo store.TaskRepo, clock sched.Scheduler, awarder Awarder, logger *zap.Logger) *Checklist {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Checklist{repo: repo, clock: clock, awarder: awarder, logger: logger}
	c.drugs = make([]Drug, len(drugs))
	copy(c.drugs, drugs)
	return c
}

func (c *Checklist) today() string {
	return c.clock.Now().Format(time.DateOnly)
}

// Load marks the drugs already recorded today as taken.
func (c *Checklist) Load(ctx context.Context) error {
	day := c.today()
	intakes, err := c.repo.IntakesOn(ctx, day)
	if err != nil {
		return fmt.Errorf("load intakes: %w", err)
	}
	taken := make(map[string]bool, len(intakes))
	for _, in := range intakes {
		taken[in.MedicationID] = true
	}
	for i := range c.drugs {
		c.drugs[i].Taken = taken[c.drugs[i].ID]
	}
	c.day = day
	return nil
}

// Drugs returns a copy of the list.
func (c *Checklist) Drugs() []Drug {
	out := make([]Drug, len(c.drugs))
	copy(out, c.drugs)
	return out
}

// Groups returns the non-empty periods in display order.
func (c *Checklist) Groups() []Group {
	var out []Group
	for _, p := range Periods {
		g := Group{Period: p, Complete: true}
		for _, d := range c.drugs {
			if d.Period != p {
				continue
			}
			g.Drugs = append(g.Drugs, d)
			g.Complete = g.Complete && d.Taken
		}
		if len(g.Drugs) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// Remaining counts drugs not yet taken today.
func (c *Checklist) Remaining() int {
	n := 0
	for _, d := range c.drugs {
		if !d.Taken {
			n++
		}
	}
	return n
}

// MarkTaken records drug id as taken today. It reports true only for the
// first mark of the day, which is also the only one that awards points.
func (c *Checklist) MarkTaken(ctx context.Context, id string) (bool, error) {
	if c.day != c.today() {
		if err := c.Load(ctx); err != nil {
			return false, err
		}
	}

	idx := -1
	for i := range c.drugs {
		if c.drugs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, fmt.Errorf("%w: %q", ErrUnknownDrug, id)
	}
	d := &c.drugs[idx]
	if d.Taken {
		return false, nil
	}

	inserted, err := c.repo.AppendIntake(ctx, store.IntakeRecord{
		Timestamp:    c.clock.Now(),
		Date:         c.day,
		MedicationID: d.ID,
		Name:         d.Name,
		Period:       string(d.Period),
	})
	if err != nil {
		return false, fmt.Errorf("record intake: %w", err)
	}
	d.Taken = true
	if !inserted {
		return false, nil
	}

	c.logger.Info("medication taken", zap.String("drug", d.ID))
	if c.awarder != nil {
		if err := c.awarder.AwardPoints(ctx, progression.SourceMedication, AwardPoints); err != nil {
			c.logger.Warn("medication award failed", zap.Error(err))
		}
	}
	return true, nil
}
