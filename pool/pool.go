package pool

import (
	"math/rand"

	"github.com/iFeyz/tiktok-ball-sub001/model"
)

// Pool holds the ordered note sequence and the playback cursor. It is not
// self-synchronizing; the owning engine serializes every call.
type Pool struct {
	notes  []model.NoteEvent
	cursor int
	rng    *rand.Rand
}

func New(seed int64) *Pool {
	return &Pool{rng: rand.New(rand.NewSource(seed))}
}

// Replace installs a freshly built pool and resets the cursor.
func (p *Pool) Replace(notes []model.NoteEvent) {
	p.notes = notes
	p.cursor = 0
}

func (p *Pool) Clear() {
	p.notes = nil
	p.cursor = 0
}

func (p *Pool) Len() int {
	return len(p.notes)
}

func (p *Pool) HasNotes() bool {
	return len(p.notes) > 0
}

// Next picks the note to play. With a track filter the pick is uniform
// random among that track's events, falling back to cycling over the whole
// pool when the subset is empty. Without a filter, the cycling preset walks
// the pool in order and any specific preset picks uniformly at random.
func (p *Pool) Next(preset model.InstrumentPreset, filter *uint32) (model.NoteEvent, bool) {
	if len(p.notes) == 0 {
		return model.NoteEvent{}, false
	}
	if filter != nil {
		var candidates []int
		for i, ev := range p.notes {
			if ev.Track == *filter {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) > 0 {
			return p.notes[candidates[p.rng.Intn(len(candidates))]], true
		}
		return p.cycle(), true
	}
	if preset == model.PresetDefaultCycling {
		return p.cycle(), true
	}
	return p.notes[p.rng.Intn(len(p.notes))], true
}

// cycle returns the note under the cursor and advances it, wrapping so the
// pool is exhausted before any entry repeats.
func (p *Pool) cycle() model.NoteEvent {
	ev := p.notes[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.notes)
	return ev
}
