package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iFeyz/tiktok-ball-sub001/model"
	"github.com/iFeyz/tiktok-ball-sub001/synth"
)

func makeHeader(format, tracks, division uint16) []byte {
	return []byte{
		'M', 'T', 'h', 'd',
		0, 0, 0, 6,
		byte(format >> 8), byte(format),
		byte(tracks >> 8), byte(tracks),
		byte(division >> 8), byte(division),
	}
}

func makeTrack(events []byte) []byte {
	l := uint32(len(events))
	buf := []byte{
		'M', 'T', 'r', 'k',
		byte(l >> 24), byte(l >> 16), byte(l >> 8), byte(l),
	}
	return append(buf, events...)
}

var endOfTrack = []byte{0x00, 0xFF, 0x2F, 0x00}

// melody builds a track body of count note-ons walking up from start over
// span semitones, 16 ticks apart.
func melody(count int, start, span uint8) []byte {
	var body []byte
	for i := 0; i < count; i++ {
		body = append(body, 0x10, 0x90, start+uint8(i)%span, 0x40)
	}
	return append(body, endOfTrack...)
}

// melodicFile is a single track that clears both melodic thresholds.
func melodicFile() []byte {
	return append(makeHeader(0, 1, 96), makeTrack(melody(12, 60, 9))...)
}

// twoTrackFile pairs a sparse three-note track with a 40-note melody two
// octaves wide. Only the second should survive selection.
func twoTrackFile() []byte {
	sparse := []byte{
		0x00, 0x90, 60, 100,
		0x20, 0x90, 61, 100,
		0x20, 0x90, 60, 100,
	}
	sparse = append(sparse, endOfTrack...)
	data := makeHeader(1, 2, 96)
	data = append(data, makeTrack(sparse)...)
	data = append(data, makeTrack(melody(40, 48, 25))...)
	return data
}

func testEngine() *Engine {
	cfg := DefaultConfig()
	cfg.SampleRate = 1000
	cfg.RandomSeed = 1
	return NewWithConfig(cfg)
}

func TestLoadMidiFillsPool(t *testing.T) {
	e := testEngine()

	assert := assert.New(t)
	assert.False(e.HasNotes())
	assert.True(e.LoadMidi(melodicFile()))
	assert.True(e.HasNotes())
	assert.Equal(12, e.PoolSize())
}

func TestFailedReloadKeepsPreviousPool(t *testing.T) {
	e := testEngine()

	assert := assert.New(t)
	assert.True(e.LoadMidi(melodicFile()))
	assert.False(e.LoadMidi([]byte("not a midi file")))
	assert.Equal(12, e.PoolSize())

	// a well-formed file with zero usable notes also leaves the pool alone
	empty := append(makeHeader(0, 1, 96), makeTrack(endOfTrack)...)
	assert.False(e.LoadMidi(empty))
	assert.Equal(12, e.PoolSize())
}

func TestCyclingWalksPoolInTimeOrder(t *testing.T) {
	e := testEngine()
	e.LoadMidi(melodicFile())

	assert := assert.New(t)
	seen := map[uint64]bool{}
	var last uint64
	for i := 0; i < e.PoolSize(); i++ {
		plan, err := e.planVoice(1)
		assert.Nil(err)
		if i > 0 {
			assert.Greater(plan.source.TimingTicks, last)
		}
		last = plan.source.TimingTicks
		seen[plan.source.TimingTicks] = true
	}
	assert.Len(seen, e.PoolSize())

	// next trigger wraps back to the earliest note
	plan, err := e.planVoice(1)
	assert.Nil(err)
	assert.Equal(uint64(0x10), plan.source.TimingTicks)
}

func TestMelodicTrackWinsSelection(t *testing.T) {
	e := testEngine()

	assert := assert.New(t)
	assert.True(e.LoadMidi(twoTrackFile()))
	assert.Equal(40, e.PoolSize())

	var last uint64
	for i := 0; i < 5; i++ {
		plan, err := e.planVoice(1)
		assert.Nil(err)
		assert.Equal(uint32(1), plan.source.Track)
		if i > 0 {
			assert.Greater(plan.source.TimingTicks, last)
		}
		last = plan.source.TimingTicks
	}
}

func TestTonalityTransposesPlans(t *testing.T) {
	e := testEngine()
	e.LoadMidi(melodicFile())

	assert := assert.New(t)
	e.SetTonality("D")
	assert.Equal(2, e.Transpose())
	plan, err := e.planVoice(1)
	assert.Nil(err)
	assert.Equal(plan.source.Note+2, plan.note)

	e.SetTonality("H")
	assert.Equal(0, e.Transpose())
}

func TestVolumeCombinesAndClamps(t *testing.T) {
	e := testEngine()
	e.LoadMidi(melodicFile())

	assert := assert.New(t)
	e.SetVolume(2)
	assert.Equal(1.0, e.Volume())
	e.SetVolume(-0.5)
	assert.Equal(0.0, e.Volume())

	e.SetVolume(0.5)
	plan, _ := e.planVoice(2) // per-trigger level clamps to 1 first
	assert.Equal(0.5, plan.peak)
	plan, _ = e.planVoice(0.5)
	assert.Equal(0.25, plan.peak)
}

func TestTriggerOnEmptyPool(t *testing.T) {
	e := testEngine()

	assert := assert.New(t)
	assert.ErrorIs(e.TriggerNote(1), ErrEmptyPool)

	e.LoadMidi(melodicFile())
	assert.Nil(e.TriggerNote(1))

	e.Clear()
	assert.False(e.HasNotes())
	assert.ErrorIs(e.TriggerNote(1), ErrEmptyPool)
}

func TestClearKeepsSettings(t *testing.T) {
	e := testEngine()
	e.LoadMidi(melodicFile())
	e.SetTonality("D")
	e.SetVolume(0.3)
	e.SetInstrumentPreset(model.PresetFM)

	e.Clear()

	assert := assert.New(t)
	assert.Equal(0, e.PoolSize())
	assert.Equal(2, e.Transpose())
	assert.Equal(0.3, e.Volume())
	assert.Equal(model.PresetFM, e.Preset())
}

func TestPresetPicksTimbre(t *testing.T) {
	e := testEngine()
	e.LoadMidi(twoTrackFile())

	assert := assert.New(t)
	e.SetInstrumentPreset(model.PresetMetallic)
	plan, err := e.planVoice(1)
	assert.Nil(err)
	assert.Equal(synth.TimbreMetallic, plan.timbre)

	e.SetInstrumentPreset(model.PresetDefaultCycling)
	plan, err = e.planVoice(1)
	assert.Nil(err)
	assert.Equal(synth.TimbreForTrack(plan.source.Track), plan.timbre)
}

func TestTrackFilterFallsBackWhenEmpty(t *testing.T) {
	e := testEngine()
	e.LoadMidi(melodicFile()) // everything lives on track 0

	assert := assert.New(t)
	missing := uint32(7)
	e.SetTrackFilter(&missing)
	plan, err := e.planVoice(1)
	assert.Nil(err)
	assert.Equal(uint32(0), plan.source.Track)

	e.SetTrackFilter(nil)
	_, err = e.planVoice(1)
	assert.Nil(err)
}

func TestTriggerSpawnsVoiceThatExpires(t *testing.T) {
	e := testEngine() // 1kHz keeps voice lifetimes tiny

	assert := assert.New(t)
	e.LoadMidi(melodicFile())
	assert.Nil(e.TriggerNote(1))
	assert.Equal(1, e.ActiveVoices())

	buf := make([]byte, 2048) // over two seconds, far past the envelope
	n, err := e.Read(buf)
	assert.Nil(err)
	assert.Equal(2048, n)
	assert.Equal(0, e.ActiveVoices())

	nonZero := false
	for _, b := range buf[:1140] {
		if b != 0 {
			nonZero = true
			break
		}
	}
	assert.True(nonZero, "expected audible signal while the voice lived")
}

type captureSink struct {
	samples []int16
}

func (c *captureSink) WritePCM(s []int16) {
	c.samples = append(c.samples, s...)
}

func TestRecordingSinkReceivesMix(t *testing.T) {
	e := testEngine()
	e.LoadMidi(melodicFile())

	sink := &captureSink{}
	e.RegisterRecordingSink(sink)
	e.TriggerNote(1)

	buf := make([]byte, 256)
	e.Read(buf)

	assert := assert.New(t)
	assert.Len(sink.samples, 128)

	e.UnregisterRecordingSink()
	e.Read(buf)
	assert.Len(sink.samples, 128)
}
