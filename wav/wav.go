package wav

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Encode writes samples as a mono 16-bit PCM RIFF/WAVE file.
func Encode(w io.Writer, samples []int16, sampleRate int) error {
	var buf bytes.Buffer

	dataSize := uint32(len(samples) * 2)
	byteRate := uint32(sampleRate * 2)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, uint16(2))  // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	for _, s := range samples {
		binary.Write(&buf, binary.LittleEndian, s)
	}

	_, err := w.Write(buf.Bytes())
	return err
}
