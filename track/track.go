package track

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/iFeyz/tiktok-ball-sub001/model"
)

// SelectMelodic returns the set of tracks that look like main melodic
// material: strictly more than minNotes note-ons spanning strictly more
// than minRange semitones. An empty result is valid and means no track
// qualified.
func SelectMelodic(stats model.TrackStats, minNotes uint32, minRange uint8) map[uint32]bool {
	res := make(map[uint32]bool)
	for track, st := range stats {
		if st.NoteCount > minNotes && st.HighestNote-st.LowestNote > minRange {
			res[track] = true
		}
	}
	return res
}

// BuildPool filters events down to the selected tracks (all of them when
// the selection is empty), sorts ascending by timing, and truncates to the
// first limit entries.
func BuildPool(events []model.NoteEvent, selected map[uint32]bool, limit int) []model.NoteEvent {
	var res []model.NoteEvent
	for _, ev := range events {
		if len(selected) == 0 || selected[ev.Track] {
			res = append(res, ev)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].TimingTicks < res[j].TimingTicks
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}

// Select runs the whole analyzer step: significance scoring, the
// use-all-tracks fallback, ordering, and the pool cap.
func Select(events []model.NoteEvent, stats model.TrackStats, minNotes uint32, minRange uint8, limit int) []model.NoteEvent {
	selected := SelectMelodic(stats, minNotes, minRange)
	if len(selected) == 0 && len(stats) > 0 {
		logrus.Warnf("track: no melodic track found among %d tracks, using all", len(stats))
	}
	return BuildPool(events, selected, limit)
}
