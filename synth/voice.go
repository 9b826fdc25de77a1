package synth

// VoiceState tracks the lifecycle of a transient voice.
type VoiceState int

const (
	VoiceStarted VoiceState = iota
	VoiceActive
	VoiceReleased
	VoiceDisposed
)

// Voice is one triggered note: an instrument strategy, its envelope, and a
// peak level, advanced one sample at a time until the release completes.
// Voices never persist: once past the envelope they render silence and get
// dropped from the mix.
type Voice struct {
	instrument Instrument
	env        Envelope
	freq       float64
	peak       float64
	sampleRate float64
	samples    int
	disposed   bool
}

func NewVoice(instrument Instrument, freq, peak float64, sampleRate int) *Voice {
	return &Voice{
		instrument: instrument,
		env:        instrument.Envelope(),
		freq:       freq,
		peak:       peak,
		sampleRate: float64(sampleRate),
	}
}

// Sample renders the next mono sample. When the release completes the
// voice flags itself disposed.
func (v *Voice) Sample() float64 {
	if v.disposed {
		return 0
	}
	t := float64(v.samples) / v.sampleRate
	if t >= v.env.Duration() {
		v.disposed = true
		return 0
	}
	v.samples++
	return v.instrument.Render(t, v.freq) * v.env.Amplitude(t) * v.peak
}

func (v *Voice) Done() bool {
	return v.disposed
}

// State reports where the voice sits in its started, active, released,
// disposed lifecycle.
func (v *Voice) State() VoiceState {
	if v.disposed {
		return VoiceDisposed
	}
	t := float64(v.samples) / v.sampleRate
	switch {
	case t < v.env.Attack:
		return VoiceStarted
	case t < v.env.Attack+v.env.Decay+v.env.Hold:
		return VoiceActive
	default:
		return VoiceReleased
	}
}
