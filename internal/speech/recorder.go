// Package speech runs the read-aloud task. Recording is simulated: the
// countdown is real, the captured audio is silence of the same length, and
// the upload is a fixed delay.
package speech

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/sched"
	"github.com/neurotrack/neurotrack/internal/store"
)

// TaskType tags stored recordings.
const TaskType = "read_sentence"

const (
	DefaultMaxSeconds = 30
	UploadDelay       = 1500 * time.Millisecond
	AwardPoints       = 10
	tick              = time.Second
)

// Status is the recorder state.
type Status int

const (
	Idle Status = iota
	Recording
	Recorded
	Uploading
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Recorded:
		return "recorded"
	case Uploading:
		return "uploading"
	}
	return "unknown"
}

// Awarder receives the completion award.
type Awarder interface {
	AwardPoints(ctx context.Context, source string, points int) error
}

// Config wires a Recorder. Clock, Repo and Dir are required.
type Config struct {
	Script     string
	MaxSeconds int
	// Dir receives the clip files.
	Dir     string
	Clock   sched.Scheduler
	Repo    store.TaskRepo
	Awarder Awarder
	Logger  *zap.Logger
}

// Recorder is the read-aloud state machine. Like the trial runner it must
// be driven from the loop owning its scheduler.
type Recorder struct {
	ctx context.Context
	cfg Config

	status   Status
	timeLeft int
	duration int
	last     *store.RecordingRecord

	ticker   sched.Timer
	upload   sched.Timer
	disposed bool
}

// NewRecorder creates an idle recorder.
func NewRecorder(ctx context.Context, cfg Config) *Recorder {
	if cfg.MaxSeconds <= 0 {
		cfg.MaxSeconds = DefaultMaxSeconds
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Recorder{ctx: ctx, cfg: cfg, timeLeft: cfg.MaxSeconds}
}

func (r *Recorder) Status() Status  { return r.status }
func (r *Recorder) Script() string  { return r.cfg.Script }
func (r *Recorder) MaxSeconds() int { return r.cfg.MaxSeconds }

// TimeLeft is the countdown in seconds.
func (r *Recorder) TimeLeft() int { return r.timeLeft }

// Duration is the length of the captured clip in seconds.
func (r *Recorder) Duration() int { return r.duration }

// LastUpload returns the most recent stored recording of this recorder.
func (r *Recorder) LastUpload() *store.RecordingRecord { return r.last }

// Start begins recording from Idle, or re-records from Recorded.
func (r *Recorder) Start() bool {
	if r.disposed || (r.status != Idle && r.status != Recorded) {
		return false
	}
	r.status = Recording
	r.timeLeft = r.cfg.MaxSeconds
	r.duration = 0
	r.ticker = sched.Ticker(r.cfg.Clock, tick, r.onTick)
	return true
}

func (r *Recorder) onTick() {
	if r.disposed || r.status != Recording {
		return
	}
	r.timeLeft--
	if r.timeLeft <= 0 {
		r.timeLeft = 0
		r.Stop()
	}
}

// Stop ends recording and keeps the clip.
func (r *Recorder) Stop() bool {
	if r.disposed || r.status != Recording {
		return false
	}
	r.ticker.Stop()
	r.ticker = nil
	r.duration = r.cfg.MaxSeconds - r.timeLeft
	r.status = Recorded
	return true
}

// Discard drops a recorded clip.
func (r *Recorder) Discard() bool {
	if r.disposed || r.status != Recorded {
		return false
	}
	r.status = Idle
	r.timeLeft = r.cfg.MaxSeconds
	r.duration = 0
	return true
}

// Upload writes the clip and schedules the mock upload. When it completes
// the recording is stored, points are awarded and the recorder is idle.
func (r *Recorder) Upload() (bool, error) {
	if r.disposed || r.status != Recorded {
		return false, nil
	}

	path := filepath.Join(r.cfg.Dir, "recording-"+uuid.NewString()+".wav")
	if err := writeSilentClip(path, time.Duration(r.duration)*time.Second); err != nil {
		return false, err
	}

	r.status = Uploading
	rec := store.RecordingRecord{
		TaskType: TaskType,
		AudioURL: "file://" + filepath.ToSlash(path),
		Duration: r.duration,
	}
	r.upload = r.cfg.Clock.AfterFunc(UploadDelay, func() { r.finishUpload(rec) })
	return true, nil
}

func (r *Recorder) finishUpload(rec store.RecordingRecord) {
	r.upload = nil
	if r.disposed {
		return
	}
	rec.Timestamp = r.cfg.Clock.Now()
	if err := r.cfg.Repo.AppendRecording(r.ctx, rec); err != nil {
		r.cfg.Logger.Error("store recording", zap.Error(err))
	} else {
		r.last = &rec
		r.cfg.Logger.Info("recording uploaded", zap.Int("duration", rec.Duration), zap.String("audio_url", rec.AudioURL))
		if r.cfg.Awarder != nil {
			if err := r.cfg.Awarder.AwardPoints(r.ctx, progression.SourceSpeech, AwardPoints); err != nil {
				r.cfg.Logger.Warn("speech award failed", zap.Error(err))
			}
		}
	}
	r.status = Idle
	r.timeLeft = r.cfg.MaxSeconds
	r.duration = 0
}

// Dispose cancels the countdown and any pending upload.
func (r *Recorder) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	if r.ticker != nil {
		r.ticker.Stop()
	}
	if r.upload != nil {
		r.upload.Stop()
	}
}

// FormatCountdown renders seconds as M:SS.
func FormatCountdown(sec int) string {
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}
