package wav

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Recorder accumulates PCM pulled through the synth's recording tap and
// persists it as a WAVE file. Disk writes are debounced so a burst of
// audio causes one flush; Close always writes the final state.
type Recorder struct {
	mu         sync.Mutex
	path       string
	sampleRate int
	samples    []int16
	flushSoon  func(f func())
}

// NewRecorder records to an explicit path.
func NewRecorder(path string, sampleRate int) *Recorder {
	return &Recorder{
		path:       path,
		sampleRate: sampleRate,
		flushSoon:  debounce.New(2 * time.Second),
	}
}

// NewSessionRecorder records to a fresh uuid-named file under dir.
func NewSessionRecorder(dir string, sampleRate int) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, uuid.New().String()+".wav")
	return NewRecorder(path, sampleRate), nil
}

func (r *Recorder) Path() string {
	return r.path
}

// Duration of audio captured so far.
func (r *Recorder) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Duration(len(r.samples)) * time.Second / time.Duration(r.sampleRate)
}

// WritePCM implements the synth's recording tap.
func (r *Recorder) WritePCM(samples []int16) {
	r.mu.Lock()
	r.samples = append(r.samples, samples...)
	r.mu.Unlock()

	r.flushSoon(func() {
		if err := r.Flush(); err != nil {
			logrus.Warnf("wav: flush of %v failed: %v", r.path, err)
		}
	})
}

// Flush writes everything captured so far.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	samples := make([]int16, len(r.samples))
	copy(samples, r.samples)
	rate := r.sampleRate
	path := r.path
	r.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Encode(f, samples, rate)
}

// Close writes the final file.
func (r *Recorder) Close() error {
	return r.Flush()
}
