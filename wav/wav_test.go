package wav

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEncodeWritesRiffHeader(t *testing.T) {
	var buf bytes.Buffer
	samples := []int16{0, 1000, -1000, 32767}

	err := Encode(&buf, samples, 44100)

	assert := assert.New(t)
	assert.Nil(err)
	data := buf.Bytes()
	assert.Len(data, 44+8)

	assert.Equal("RIFF", string(data[0:4]))
	assert.Equal(uint32(36+8), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal("WAVE", string(data[8:12]))
	assert.Equal("fmt ", string(data[12:16]))
	assert.Equal(uint32(16), binary.LittleEndian.Uint32(data[16:20]))
	assert.Equal(uint16(1), binary.LittleEndian.Uint16(data[20:22])) // PCM
	assert.Equal(uint16(1), binary.LittleEndian.Uint16(data[22:24])) // mono
	assert.Equal(uint32(44100), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(uint32(88200), binary.LittleEndian.Uint32(data[28:32]))
	assert.Equal(uint16(2), binary.LittleEndian.Uint16(data[32:34]))
	assert.Equal(uint16(16), binary.LittleEndian.Uint16(data[34:36]))
	assert.Equal("data", string(data[36:40]))
	assert.Equal(uint32(8), binary.LittleEndian.Uint32(data[40:44]))

	assert.Equal(uint16(1000), binary.LittleEndian.Uint16(data[46:48]))
	assert.Equal(int16(-1000), int16(binary.LittleEndian.Uint16(data[48:50])))
}

func TestRecorderFlushesCapturedAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.wav")
	r := NewRecorder(path, 8000)

	r.WritePCM([]int16{1, 2, 3})
	r.WritePCM([]int16{4, 5})
	err := r.Close()

	assert := assert.New(t)
	assert.Nil(err)
	data, err := os.ReadFile(path)
	assert.Nil(err)
	assert.Len(data, 44+10)
	assert.Equal(uint32(10), binary.LittleEndian.Uint32(data[40:44]))
	assert.Equal(uint16(4), binary.LittleEndian.Uint16(data[50:52]))
}

func TestSessionRecorderUsesUuidFilenames(t *testing.T) {
	dir := t.TempDir()

	r, err := NewSessionRecorder(dir, 44100)

	assert := assert.New(t)
	assert.Nil(err)
	base := filepath.Base(r.Path())
	assert.True(strings.HasSuffix(base, ".wav"))
	_, err = uuid.Parse(strings.TrimSuffix(base, ".wav"))
	assert.Nil(err)
}

func TestRecorderDuration(t *testing.T) {
	r := NewRecorder(filepath.Join(t.TempDir(), "a.wav"), 1000)

	r.WritePCM(make([]int16, 500))

	assert.Equal(t, "500ms", r.Duration().String())
}
