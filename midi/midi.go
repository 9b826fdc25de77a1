package midi

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/iFeyz/tiktok-ball-sub001/constants"
	"github.com/iFeyz/tiktok-ball-sub001/model"
)

const (
	headerTag = "MThd"
	trackTag  = "MTrk"

	// tag + length + format + trackCount + timeDivision
	headerLen = 14
)

// Header is the decoded MThd payload.
type Header struct {
	Format       uint16
	TrackCount   uint16
	TimeDivision uint16
}

// Result of one parse: note-ons in file order plus per-track stats. The
// parser neither sorts nor filters; that is the analyzer's job.
type Result struct {
	Header Header
	Events []model.NoteEvent
	Stats  model.TrackStats
}

// Parse decodes a Standard MIDI byte buffer into the flat list of usable
// note-ons. Notes outside the piano range and zero-velocity note-ons are
// consumed but not recorded. Track indices number MTrk chunks in encounter
// order starting at 0.
func Parse(data []byte) (*Result, error) {
	r := &reader{data: data}

	hdr, err := parseHeader(r)
	if err != nil {
		return nil, err
	}

	res := &Result{Header: *hdr, Stats: make(model.TrackStats)}
	for track := uint32(0); track < uint32(hdr.TrackCount); track++ {
		body, err := nextTrackChunk(r)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", track, err)
		}
		if err := parseTrackEvents(body, track, res); err != nil {
			return nil, fmt.Errorf("track %d: %w", track, err)
		}
	}
	return res, nil
}

func parseHeader(r *reader) (*Header, error) {
	if r.remaining() < headerLen {
		return nil, &FormatError{Offset: 0, Reason: fmt.Sprintf("need %d header bytes, have %d", headerLen, r.remaining())}
	}

	tag, err := r.readN(4)
	if err != nil {
		return nil, err
	}
	if string(tag) != headerTag {
		return nil, &FormatError{Offset: 0, Reason: fmt.Sprintf("expected %s tag, got %q", headerTag, tag)}
	}

	length, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	if length != 6 {
		return nil, &FormatError{Offset: 4, Reason: fmt.Sprintf("header length must be 6, got %d", length)}
	}

	var hdr Header
	if hdr.Format, err = r.readUint16(); err != nil {
		return nil, err
	}
	if hdr.TrackCount, err = r.readUint16(); err != nil {
		return nil, err
	}
	if hdr.TimeDivision, err = r.readUint16(); err != nil {
		return nil, err
	}
	return &hdr, nil
}

// nextTrackChunk positions the reader on the next MTrk chunk and returns a
// reader over its body. A non-matching tag advances one byte and retries;
// a resync, not an abort.
func nextTrackChunk(r *reader) (*reader, error) {
	skipped := 0
	for {
		start := r.pos
		tag, err := r.readN(4)
		if err != nil {
			return nil, err
		}
		if string(tag) != trackTag {
			r.pos = start + 1
			skipped++
			continue
		}
		if skipped > 0 {
			logrus.Debugf("midi: skipped %d stray bytes before %s chunk at byte %d", skipped, trackTag, start)
		}
		length, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		body, err := r.readN(int(length))
		if err != nil {
			return nil, err
		}
		return &reader{data: body}, nil
	}
}

func parseTrackEvents(r *reader, track uint32, res *Result) error {
	var absTime uint64
	var runningStatus byte

	for r.remaining() > 0 {
		delta, err := r.readVarLen()
		if err != nil {
			return err
		}
		absTime += delta

		status, err := r.readByte()
		if err != nil {
			return err
		}
		if status&0x80 == 0 {
			// High bit clear: this is data under the previous status, not
			// a new status byte. Put it back and reuse runningStatus.
			r.unread()
			status = runningStatus
		} else {
			runningStatus = status
		}

		switch {
		case status&0xF0 == 0x90:
			note, err := r.readByte()
			if err != nil {
				return err
			}
			velocity, err := r.readByte()
			if err != nil {
				return err
			}
			if velocity > 0 && note >= constants.NoteMin && note <= constants.NoteMax {
				res.Events = append(res.Events, model.NoteEvent{
					Note:        note,
					Track:       track,
					TimingTicks: absTime,
					Velocity:    velocity,
				})
				observe(res.Stats, track, note, velocity)
			}
		case status == 0xFF:
			// Meta: type byte, VLQ length, payload. No semantic decoding.
			if _, err := r.readByte(); err != nil {
				return err
			}
			length, err := r.readVarLen()
			if err != nil {
				return err
			}
			if err := r.skip(int(length)); err != nil {
				return err
			}
		case status == 0xF0 || status == 0xF7:
			length, err := r.readVarLen()
			if err != nil {
				return err
			}
			if err := r.skip(int(length)); err != nil {
				return err
			}
		case status&0xF0 == 0xC0 || status&0xF0 == 0xD0:
			if err := r.skip(1); err != nil {
				return err
			}
		case status >= 0x80 && status <= 0xEF:
			if err := r.skip(2); err != nil {
				return err
			}
		default:
			// Unrecognized status: consuming the byte was the whole
			// handling.
		}
	}
	return nil
}

func observe(stats model.TrackStats, track uint32, note uint8, velocity uint8) {
	st, ok := stats[track]
	if !ok {
		st.LowestNote = note
		st.HighestNote = note
	}
	st.NoteCount++
	st.VelocitySum += uint64(velocity)
	if note > st.HighestNote {
		st.HighestNote = note
	}
	if note < st.LowestNote {
		st.LowestNote = note
	}
	stats[track] = st
}
