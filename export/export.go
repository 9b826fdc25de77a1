package export

import (
	"io"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/iFeyz/tiktok-ball-sub001/model"
)

// gateTicks is how long each exported note is held before its note-off.
const gateTicks = 120

// Build renders extracted notes back into a single-track midi file so a
// pool can be audited in an ordinary player. Notes are expected in timing
// order, the way the pool stores them. Notes closer together than the gate
// get nudged to right after the previous note-off.
func Build(notes []model.NoteEvent, division uint16) *smf.SMF {
	res := smf.New()
	res.TimeFormat = smf.MetricTicks(division)

	var tr smf.Track
	var cursor uint64
	for _, ev := range notes {
		var delta uint32
		if ev.TimingTicks > cursor {
			delta = uint32(ev.TimingTicks - cursor)
			cursor = ev.TimingTicks
		}
		tr.Add(delta, midi.NoteOn(0, ev.Note, ev.Velocity))
		tr.Add(gateTicks, midi.NoteOff(0, ev.Note))
		cursor += gateTicks
	}
	tr.Close(0)
	res.Add(tr)
	return res
}

// Write serializes the rebuilt file to w.
func Write(w io.Writer, notes []model.NoteEvent, division uint16) error {
	_, err := Build(notes, division).WriteTo(w)
	return err
}
