package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iFeyz/tiktok-ball-sub001/constants"
	"github.com/iFeyz/tiktok-ball-sub001/midi"
	"github.com/iFeyz/tiktok-ball-sub001/model"
	"github.com/iFeyz/tiktok-ball-sub001/pool"
	"github.com/iFeyz/tiktok-ball-sub001/synth"
	"github.com/iFeyz/tiktok-ball-sub001/tonality"
	"github.com/iFeyz/tiktok-ball-sub001/track"
	"github.com/iFeyz/tiktok-ball-sub001/util"
)

// ErrEmptyPool is returned by TriggerNote when no notes are loaded, or when
// a track filter matches nothing and there is nothing to fall back to.
var ErrEmptyPool = errors.New("engine: note pool is empty")

// Config carries the tunable knobs. The melodic thresholds are inherited
// heuristics; callers that know their corpus better can override them.
type Config struct {
	MinTrackNotes uint32
	MinTrackRange uint8
	PoolCap       int
	SampleRate    int
	MaxVoices     int
	RandomSeed    int64
}

func DefaultConfig() Config {
	return Config{
		MinTrackNotes: constants.DefaultMinTrackNotes,
		MinTrackRange: constants.DefaultMinTrackRange,
		PoolCap:       constants.DefaultPoolCap,
		SampleRate:    constants.SampleRate,
		MaxVoices:     constants.MaxVoices,
	}
}

// Engine owns the whole playback state: the note pool, transposition,
// instrument preset, track filter, global volume, and the synthesizer.
// Every method is safe for concurrent use. Independent instances never
// share state.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	pool      *pool.Pool
	transpose int
	preset    model.InstrumentPreset
	filter    *uint32
	volume    float64
	synth     *synth.Synth
}

func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

func NewWithConfig(cfg Config) *Engine {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = constants.SampleRate
	}
	if cfg.MaxVoices <= 0 {
		cfg.MaxVoices = constants.MaxVoices
	}
	if cfg.PoolCap <= 0 {
		cfg.PoolCap = constants.DefaultPoolCap
	}
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		cfg:    cfg,
		pool:   pool.New(seed),
		preset: model.PresetDefaultCycling,
		volume: 1,
		synth:  synth.New(cfg.SampleRate, cfg.MaxVoices),
	}
}

// LoadMidi parses data as a standard midi file and replaces the pool with
// the notes picked from its melodic tracks. Returns false on any parse
// failure or when nothing usable was found; the previous pool is kept
// untouched in that case so playback keeps working on the last good file.
func (e *Engine) LoadMidi(data []byte) bool {
	res, err := midi.Parse(data)
	if err != nil {
		logrus.Warnf("engine: midi parse failed: %v", err)
		return false
	}
	notes := track.Select(res.Events, res.Stats, e.cfg.MinTrackNotes, e.cfg.MinTrackRange, e.cfg.PoolCap)
	if len(notes) == 0 {
		logrus.Warnf("engine: no playable notes in file with %d tracks", res.Header.TrackCount)
		return false
	}
	e.mu.Lock()
	e.pool.Replace(notes)
	e.mu.Unlock()
	logrus.Debugf("engine: loaded %d notes from %d tracks", len(notes), len(res.Stats))
	return true
}

// Clear drops all loaded notes. Playback settings survive.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.pool.Clear()
	e.mu.Unlock()
}

func (e *Engine) HasNotes() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.HasNotes()
}

func (e *Engine) PoolSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Len()
}

// SetTonality shifts future notes into the given key. Unknown keys fall
// back to C, so this never fails.
func (e *Engine) SetTonality(key string) {
	offset := tonality.Offset(key)
	e.mu.Lock()
	e.transpose = offset
	e.mu.Unlock()
}

func (e *Engine) Transpose() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transpose
}

func (e *Engine) SetInstrumentPreset(p model.InstrumentPreset) {
	e.mu.Lock()
	e.preset = p
	e.mu.Unlock()
}

func (e *Engine) Preset() model.InstrumentPreset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preset
}

// SetTrackFilter restricts playback to a single track. Passing nil clears
// the filter. The value is copied, the caller keeps its pointer.
func (e *Engine) SetTrackFilter(track *uint32) {
	e.mu.Lock()
	if track == nil {
		e.filter = nil
	} else {
		v := *track
		e.filter = &v
	}
	e.mu.Unlock()
}

// SetVolume sets the global output level, clamped to [0, 1].
func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	e.volume = util.Clamp(v, 0.0, 1.0)
	e.mu.Unlock()
}

func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// voicePlan is one resolved trigger: which note to sound, with what
// instrument, at what level.
type voicePlan struct {
	note   uint8
	source model.NoteEvent
	timbre synth.Timbre
	peak   float64
}

// planVoice picks the next note under the current selection policy and
// applies transposition and volume. Selection and the cursor are
// serialized under the engine mutex.
func (e *Engine) planVoice(volume float64) (voicePlan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, ok := e.pool.Next(e.preset, e.filter)
	if !ok {
		return voicePlan{}, ErrEmptyPool
	}
	return voicePlan{
		note:   tonality.Transpose(ev.Note, e.transpose),
		source: ev,
		timbre: e.timbreFor(ev),
		peak:   util.Clamp(volume, 0.0, 1.0) * e.volume,
	}, nil
}

// timbreFor maps the active preset onto a timbre. Under the cycling
// default the note's own track decides. Caller holds the mutex.
func (e *Engine) timbreFor(ev model.NoteEvent) synth.Timbre {
	switch e.preset {
	case model.PresetMelodicMain:
		return synth.TimbreMelodic
	case model.PresetPadStrings:
		return synth.TimbrePad
	case model.PresetPercussive:
		return synth.TimbrePercussive
	case model.PresetMetallic:
		return synth.TimbreMetallic
	case model.PresetFM:
		return synth.TimbreFM
	default:
		return synth.TimbreForTrack(ev.Track)
	}
}

// TriggerNote sounds the next note from the pool. The volume argument is
// the per-trigger level in [0, 1]; it scales with the global volume to
// form the envelope peak. Trigger velocity from midi input is deliberately
// not part of the amplitude.
func (e *Engine) TriggerNote(volume float64) error {
	plan, err := e.planVoice(volume)
	if err != nil {
		logrus.Debugf("engine: trigger ignored: %v", err)
		return err
	}
	e.synth.PlayNote(plan.timbre, synth.Frequency(plan.note), plan.peak)
	return nil
}

func (e *Engine) ActiveVoices() int {
	return e.synth.ActiveVoices()
}

// RegisterRecordingSink duplicates all mixed output into sink. There is a
// single slot; registering replaces any previous sink.
func (e *Engine) RegisterRecordingSink(sink synth.RecordingSink) {
	e.synth.SetRecordingSink(sink)
}

func (e *Engine) UnregisterRecordingSink() {
	e.synth.SetRecordingSink(nil)
}

// Read streams the mixed output as mono signed 16-bit little-endian PCM.
// The engine is the reader handed to the audio device.
func (e *Engine) Read(p []byte) (int, error) {
	return e.synth.Read(p)
}
