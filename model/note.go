package model

// TrackStats maps a track index to its accumulated stats.
type TrackStats = map[uint32]TrackStat

// NoteEvent is one Note-On extracted from a MIDI stream. Immutable once
// parsed.
type NoteEvent struct {
	Note        uint8
	Track       uint32
	TimingTicks uint64
	Velocity    uint8
}

// TrackStat accumulates over one track during parsing and is consumed once
// by the significance analyzer.
type TrackStat struct {
	NoteCount   uint32
	VelocitySum uint64
	HighestNote uint8
	LowestNote  uint8
}
