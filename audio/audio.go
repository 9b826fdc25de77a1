package audio

import (
	"io"

	"github.com/ebitengine/oto/v3"
)

// Device wraps the host audio output. The player pulls mono 16-bit PCM
// from whatever source Start is given.
type Device struct {
	ctx    *oto.Context
	player *oto.Player
}

// Open readies the host audio context. Blocks until the hardware is ready.
func Open(sampleRate int) (*Device, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	return &Device{ctx: ctx}, nil
}

// Start begins pulling and playing src.
func (d *Device) Start(src io.Reader) {
	d.player = d.ctx.NewPlayer(src)
	d.player.Play()
}

// Close stops playback. The underlying context stays usable for another
// Start; oto contexts cannot be closed.
func (d *Device) Close() error {
	if d.player == nil {
		return nil
	}
	return d.player.Close()
}
