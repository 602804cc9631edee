package speech

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// clipFormat is 16 kHz mono 16-bit PCM.
var clipFormat = beep.Format{
	SampleRate:  beep.SampleRate(16000),
	NumChannels: 1,
	Precision:   2,
}

// writeSilentClip writes a silent WAV of length d to path.
func writeSilentClip(path string, d time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create clip dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create clip: %w", err)
	}
	samples := clipFormat.SampleRate.N(d)
	if err := wav.Encode(f, beep.Silence(samples), clipFormat); err != nil {
		f.Close()
		return fmt.Errorf("encode clip: %w", err)
	}
	return f.Close()
}
