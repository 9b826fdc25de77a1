package model

import "strings"

// InstrumentPreset picks one of the synth timbres, or DefaultCycling to
// derive the timbre from the note's track number.
type InstrumentPreset int

const (
	PresetMelodicMain InstrumentPreset = iota
	PresetPadStrings
	PresetPercussive
	PresetMetallic
	PresetFM
	PresetDefaultCycling
)

func (p InstrumentPreset) String() string {
	names := [...]string{"melodic", "pad", "percussive", "metallic", "fm", "cycling"}
	if p >= 0 && int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// ParsePreset maps a user-facing name to a preset. Anything unrecognized
// means cycling.
func ParsePreset(s string) InstrumentPreset {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "melodic":
		return PresetMelodicMain
	case "pad":
		return PresetPadStrings
	case "percussive":
		return PresetPercussive
	case "metallic":
		return PresetMetallic
	case "fm":
		return PresetFM
	default:
		return PresetDefaultCycling
	}
}
