package synth

import "sync"

const bytesPerSample = 2

// RecordingSink receives a copy of every rendered PCM buffer. Called on
// the audio pull path, so implementations must not block.
type RecordingSink interface {
	WritePCM(samples []int16)
}

// Synth mixes all live voices into one mono signed-16-bit little-endian
// stream. It implements io.Reader so an output device can pull from it; a
// quiet synth streams silence, never io.EOF.
type Synth struct {
	mu         sync.Mutex
	voices     []*Voice
	maxVoices  int
	sampleRate int
	sink       RecordingSink
}

func New(sampleRate, maxVoices int) *Synth {
	return &Synth{sampleRate: sampleRate, maxVoices: maxVoices}
}

func (s *Synth) SampleRate() int {
	return s.sampleRate
}

// PlayNote spawns one voice for a trigger.
func (s *Synth) PlayNote(timbre Timbre, freq, peak float64) {
	s.Play(NewVoice(ForTimbre(timbre), freq, peak, s.sampleRate))
}

// Play adds a voice to the mix, stealing the oldest one at the cap.
func (s *Synth) Play(v *Voice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.voices) >= s.maxVoices {
		s.voices = s.voices[1:]
	}
	s.voices = append(s.voices, v)
}

func (s *Synth) ActiveVoices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

// SetRecordingSink installs the optional duplicate output tap; nil clears
// it. The primary path is unaffected either way.
func (s *Synth) SetRecordingSink(sink RecordingSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// Read renders len(p)/2 mono samples into p.
func (s *Synth) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerSample

	s.mu.Lock()
	var rec []int16
	if s.sink != nil {
		rec = make([]int16, 0, frames)
	}
	for i := 0; i < frames; i++ {
		var mix float64
		for _, v := range s.voices {
			mix += v.Sample()
		}
		if mix > 1 {
			mix = 1
		} else if mix < -1 {
			mix = -1
		}
		sample := int16(mix * 32767)
		p[bytesPerSample*i] = byte(sample)
		p[bytesPerSample*i+1] = byte(uint16(sample) >> 8)
		if rec != nil {
			rec = append(rec, sample)
		}
	}

	// Voices whose release completed drop out of the mix here.
	live := s.voices[:0]
	for _, v := range s.voices {
		if !v.Done() {
			live = append(live, v)
		}
	}
	s.voices = live
	sink := s.sink
	s.mu.Unlock()

	if sink != nil && len(rec) > 0 {
		sink.WritePCM(rec)
	}
	return frames * bytesPerSample, nil
}
