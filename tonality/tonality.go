package tonality

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iFeyz/tiktok-ball-sub001/util"
)

// chromatic is the fixed key table; a key's offset is its index.
var chromatic = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Normalize maps user input onto the table's spelling: a lowercase flat
// marker after the letter becomes a sharp, then everything is uppercased.
// A solitary "b" still means the key B.
func Normalize(key string) string {
	k := strings.TrimSpace(key)
	if len(k) >= 2 && k[1] == 'b' {
		k = k[:1] + "#" + k[2:]
	}
	return strings.ToUpper(k)
}

// Offset returns the semitone offset relative to C for the given key name.
// Unknown keys resolve to C with a warning; this never fails.
func Offset(key string) int {
	k := Normalize(key)
	for i, name := range chromatic {
		if name == k {
			return i
		}
	}
	logrus.Warnf("tonality: unknown key %q, falling back to C", key)
	return 0
}

// Transpose shifts a note by the given semitone offset, clamped to the
// full MIDI range. Applied at synthesis time, never at ingest.
func Transpose(note uint8, semitones int) uint8 {
	return uint8(util.Clamp(int(note)+semitones, 0, 127))
}
