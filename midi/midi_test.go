package midi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeHeader(format, tracks, division uint16) []byte {
	return []byte{
		'M', 'T', 'h', 'd', // chunk tag
		0, 0, 0, 6, // header length, always 6
		byte(format >> 8), byte(format),
		byte(tracks >> 8), byte(tracks),
		byte(division >> 8), byte(division),
	}
}

func makeTrack(events []byte) []byte {
	l := uint32(len(events))
	buf := []byte{
		'M', 'T', 'r', 'k',
		byte(l >> 24), byte(l >> 16), byte(l >> 8), byte(l),
	}
	return append(buf, events...)
}

var endOfTrack = []byte{0x00, 0xFF, 0x2F, 0x00}

func TestParsesHeader(t *testing.T) {
	data := makeHeader(1, 1, 480)
	data = append(data, makeTrack(endOfTrack)...)

	res, err := Parse(data)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(uint16(1), res.Header.Format)
	assert.Equal(uint16(1), res.Header.TrackCount)
	assert.Equal(uint16(480), res.Header.TimeDivision)
	assert.Empty(res.Events)
}

func TestRejectsBadHeaders(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"too short", []byte{'M', 'T', 'h', 'd', 0, 0}},
		{"wrong tag", append([]byte("MThx"), makeHeader(0, 1, 96)[4:]...)},
		{"wrong length", []byte{'M', 'T', 'h', 'd', 0, 0, 0, 7, 0, 0, 0, 1, 0, 96}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.data)
			var ferr *FormatError
			assert.True(t, errors.As(err, &ferr), "want FormatError, got %v", err)
		})
	}
}

func TestParsesNoteOnsWithAbsoluteTime(t *testing.T) {
	body := []byte{
		0x00, 0x90, 60, 100, // t=0, note-on C4
		0x40, 0x90, 64, 90, // t=64
		0x81, 0x48, 0x90, 67, 80, // two-byte delta 0xC8=200, t=264
	}
	body = append(body, endOfTrack...)
	data := append(makeHeader(0, 1, 96), makeTrack(body)...)

	res, err := Parse(data)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Len(res.Events, 3)
	assert.Equal(uint8(60), res.Events[0].Note)
	assert.Equal(uint64(0), res.Events[0].TimingTicks)
	assert.Equal(uint64(64), res.Events[1].TimingTicks)
	assert.Equal(uint64(264), res.Events[2].TimingTicks)
	for _, ev := range res.Events {
		assert.Equal(uint32(0), ev.Track)
	}
}

func TestRunningStatusReusesPreviousStatus(t *testing.T) {
	body := []byte{
		0x00, 0x90, 60, 100, // explicit status
		0x10, 62, 100, // running status, still note-on
		0x10, 64, 100,
		0x10, 64, 0x00, // running-status note-off idiom, skipped
	}
	body = append(body, endOfTrack...)
	data := append(makeHeader(0, 1, 96), makeTrack(body)...)

	res, err := Parse(data)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Len(res.Events, 3)
	assert.Equal(uint8(62), res.Events[1].Note)
	assert.Equal(uint64(0x10), res.Events[1].TimingTicks)
	assert.Equal(uint8(64), res.Events[2].Note)
}

func TestIgnoresUnusableNoteOns(t *testing.T) {
	body := []byte{
		0x00, 0x90, 60, 0, // velocity 0
		0x00, 0x90, 10, 100, // below piano range
		0x00, 0x90, 110, 100, // above piano range
		0x00, 0x90, 21, 100, // lowest allowed
		0x00, 0x90, 108, 100, // highest allowed
	}
	body = append(body, endOfTrack...)
	data := append(makeHeader(0, 1, 96), makeTrack(body)...)

	res, err := Parse(data)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Len(res.Events, 2)
	assert.Equal(uint8(21), res.Events[0].Note)
	assert.Equal(uint8(108), res.Events[1].Note)

	st := res.Stats[0]
	assert.Equal(uint32(2), st.NoteCount)
	assert.Equal(uint64(200), st.VelocitySum)
	assert.Equal(uint8(21), st.LowestNote)
	assert.Equal(uint8(108), st.HighestNote)
}

func TestSkipsNonNoteEvents(t *testing.T) {
	body := []byte{
		0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20, // meta tempo
		0x00, 0xF0, 0x03, 0x01, 0x02, 0xF7, // sysex, VLQ length 3
		0x00, 0xC0, 0x05, // program change, 1 data byte
		0x00, 0xD0, 0x40, // channel pressure, 1 data byte
		0x00, 0xB0, 0x07, 0x7F, // controller, 2 data bytes
		0x00, 0xE0, 0x00, 0x40, // pitch bend, 2 data bytes
		0x00, 0x80, 60, 0x40, // note-off, 2 data bytes
		0x10, 0x90, 72, 99, // the one real note
	}
	body = append(body, endOfTrack...)
	data := append(makeHeader(0, 1, 96), makeTrack(body)...)

	res, err := Parse(data)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Len(res.Events, 1)
	assert.Equal(uint8(72), res.Events[0].Note)
	assert.Equal(uint64(0x10), res.Events[0].TimingTicks)
}

func TestResyncsOnStrayBytesBetweenChunks(t *testing.T) {
	trackA := []byte{0x00, 0x90, 60, 100}
	trackA = append(trackA, endOfTrack...)
	trackB := []byte{0x00, 0x90, 72, 100}
	trackB = append(trackB, endOfTrack...)

	data := makeHeader(1, 2, 96)
	data = append(data, makeTrack(trackA)...)
	data = append(data, 0xDE, 0xAD, 0xBE) // stray bytes, not a chunk tag
	data = append(data, makeTrack(trackB)...)

	res, err := Parse(data)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Len(res.Events, 2)
	assert.Equal(uint32(0), res.Events[0].Track)
	assert.Equal(uint32(1), res.Events[1].Track)
}

func TestTruncatedTrackFails(t *testing.T) {
	cases := []struct {
		name string
		body []byte
	}{
		{"mid event", []byte{0x00, 0x90, 60}},
		{"mid delta", []byte{0x81}},
		{"mid meta payload", []byte{0x00, 0xFF, 0x51, 0x7F, 0x01}},
	}
	for i, c := range cases {
		t.Run(fmt.Sprintf("%d %s", i, c.name), func(t *testing.T) {
			data := append(makeHeader(0, 1, 96), makeTrack(c.body)...)
			_, err := Parse(data)
			var terr *TruncatedDataError
			assert.True(t, errors.As(err, &terr), "want TruncatedDataError, got %v", err)
		})
	}
}

func TestDeclaredChunkLongerThanBufferFails(t *testing.T) {
	data := makeHeader(0, 1, 96)
	data = append(data, 'M', 'T', 'r', 'k', 0, 0, 0, 50) // body never arrives
	data = append(data, 0x00, 0x90)

	_, err := Parse(data)

	var terr *TruncatedDataError
	assert.True(t, errors.As(err, &terr))
}

func TestStatsPerTrack(t *testing.T) {
	trackA := []byte{
		0x00, 0x90, 40, 10,
		0x01, 0x90, 50, 20,
	}
	trackA = append(trackA, endOfTrack...)
	trackB := []byte{
		0x00, 0x90, 90, 30,
	}
	trackB = append(trackB, endOfTrack...)

	data := makeHeader(1, 2, 96)
	data = append(data, makeTrack(trackA)...)
	data = append(data, makeTrack(trackB)...)

	res, err := Parse(data)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Len(res.Stats, 2)
	assert.Equal(uint32(2), res.Stats[0].NoteCount)
	assert.Equal(uint64(30), res.Stats[0].VelocitySum)
	assert.Equal(uint8(40), res.Stats[0].LowestNote)
	assert.Equal(uint8(50), res.Stats[0].HighestNote)
	assert.Equal(uint32(1), res.Stats[1].NoteCount)
	assert.Equal(uint8(90), res.Stats[1].HighestNote)
}
