package synth

import "math"

// Timbre indexes the five instrument strategies.
type Timbre int

const (
	TimbreMelodic Timbre = iota
	TimbrePad
	TimbrePercussive
	TimbreMetallic
	TimbreFM

	NumTimbres = 5
)

// TimbreForTrack derives the cycling-preset timbre from a track number.
func TimbreForTrack(track uint32) Timbre {
	return Timbre(track % NumTimbres)
}

// Frequency converts a MIDI note to hertz under 12-tone equal temperament,
// A4 (note 69) = 440 Hz.
func Frequency(note uint8) float64 {
	return 440.0 * math.Pow(2.0, (float64(note)-69.0)/12.0)
}

// Envelope is the piecewise-linear amplitude shape every voice follows:
// attack to peak, decay to the sustain plateau, a brief hold, release to
// silence. Fields are seconds except Sustain, a level in [0,1].
type Envelope struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Hold    float64
	Release float64
}

// Duration is the voice's total lifetime.
func (e Envelope) Duration() float64 {
	return e.Attack + e.Decay + e.Hold + e.Release
}

// Amplitude evaluates the envelope at t seconds after voice start.
func (e Envelope) Amplitude(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t < e.Attack:
		return t / e.Attack
	case t < e.Attack+e.Decay:
		progress := (t - e.Attack) / e.Decay
		return 1 - (1-e.Sustain)*progress
	case t < e.Attack+e.Decay+e.Hold:
		return e.Sustain
	case t < e.Duration():
		progress := (t - e.Attack - e.Decay - e.Hold) / e.Release
		return e.Sustain * (1 - progress)
	default:
		return 0
	}
}

// Instrument is one timbre strategy: the raw oscillator signal plus the
// envelope its voices follow.
type Instrument interface {
	Render(t, freq float64) float64
	Envelope() Envelope
}

// melodicMain thickens a pure tone with a second, slightly detuned
// oscillator.
type melodicMain struct {
	detune float64
}

func (m melodicMain) Render(t, freq float64) float64 {
	a := math.Sin(2 * math.Pi * freq * t)
	b := math.Sin(2 * math.Pi * freq * (1 + m.detune) * t)
	return (a + b) / 2
}

func (melodicMain) Envelope() Envelope {
	return Envelope{Attack: 0.02, Decay: 0.2, Sustain: 0.7, Hold: 0.05, Release: 0.3}
}

// padStrings puts slow, low-amplitude vibrato on the pitch and lets go
// slower than everything else.
type padStrings struct {
	vibratoHz    float64
	vibratoDepth float64
}

func (p padStrings) Render(t, freq float64) float64 {
	mod := 1 + p.vibratoDepth*math.Sin(2*math.Pi*p.vibratoHz*t)
	return math.Sin(2 * math.Pi * freq * mod * t)
}

func (padStrings) Envelope() Envelope {
	return Envelope{Attack: 0.02, Decay: 0.2, Sustain: 0.7, Hold: 0.05, Release: 0.8}
}

// percussive snaps in and out faster than the default shape.
type percussive struct{}

func (percussive) Render(t, freq float64) float64 {
	return math.Sin(2 * math.Pi * freq * t)
}

func (percussive) Envelope() Envelope {
	return Envelope{Attack: 0.005, Decay: 0.1, Sustain: 0.6, Hold: 0.02, Release: 0.1}
}

// metallic drives a pure tone through a saturating transfer curve.
type metallic struct {
	drive float64
}

func (m metallic) Render(t, freq float64) float64 {
	return softSat(math.Sin(2*math.Pi*freq*t), m.drive)
}

func (metallic) Envelope() Envelope {
	return Envelope{Attack: 0.02, Decay: 0.2, Sustain: 0.7, Hold: 0.05, Release: 0.25}
}

// fmBell modulates the carrier with an oscillator at a fixed frequency
// ratio for bell-like tones.
type fmBell struct {
	ratio float64
	index float64
}

func (f fmBell) Render(t, freq float64) float64 {
	return fm(t, freq, f.ratio, f.index)
}

func (fmBell) Envelope() Envelope {
	return Envelope{Attack: 0.02, Decay: 0.2, Sustain: 0.7, Hold: 0.05, Release: 0.4}
}

// ForTimbre returns the strategy behind a timbre tag.
func ForTimbre(timbre Timbre) Instrument {
	switch timbre {
	case TimbrePad:
		return padStrings{vibratoHz: 5, vibratoDepth: 0.01}
	case TimbrePercussive:
		return percussive{}
	case TimbreMetallic:
		return metallic{drive: 3}
	case TimbreFM:
		return fmBell{ratio: 1.4, index: 2}
	default:
		return melodicMain{detune: 0.003}
	}
}

// fm renders a two-operator FM pair: the carrier phase pushed around by a
// modulator at carrier*ratio, scaled by the modulation index.
func fm(t, carrier, ratio, index float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * ratio * t)
	return math.Sin(2*math.Pi*carrier*t + index*mod)
}

// softSat keeps the signal inside [-1,1] with a tanh curve.
func softSat(x, drive float64) float64 {
	return math.Tanh(drive * x)
}
