package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iFeyz/tiktok-ball-sub001/audio"
	"github.com/iFeyz/tiktok-ball-sub001/constants"
	"github.com/iFeyz/tiktok-ball-sub001/engine"
	"github.com/iFeyz/tiktok-ball-sub001/model"
	"github.com/iFeyz/tiktok-ball-sub001/wav"
)

var (
	playCount    int
	playInterval time.Duration
	playPreset   string
	playTonality string
	playTrack    int
	playVolume   float64
	playRecord   bool
)

func init() {
	playCmd.Flags().IntVar(&playCount, "count", 0, "number of notes to trigger (0 means one full pool cycle)")
	playCmd.Flags().DurationVar(&playInterval, "interval", 250*time.Millisecond, "time between triggers")
	playCmd.Flags().StringVar(&playPreset, "preset", "cycling", "instrument preset")
	playCmd.Flags().StringVar(&playTonality, "tonality", "", "transpose into this key")
	playCmd.Flags().IntVar(&playTrack, "track", -1, "only play notes from this track")
	playCmd.Flags().Float64Var(&playVolume, "volume", 1, "global volume, 0 to 1")
	playCmd.Flags().BoolVar(&playRecord, "record", false, "record the session to a wav file")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Plays notes from a midi file",
	Long:  `Plays notes from a midi file`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		play(args[0])
	},
}

func play(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		panic("Could not read file: " + err.Error())
	}

	eng := engine.New()
	if !eng.LoadMidi(data) {
		panic("Could not extract any notes from " + path)
	}
	fmt.Printf("pool size: %v\n", eng.PoolSize())

	eng.SetInstrumentPreset(model.ParsePreset(playPreset))
	if playTonality != "" {
		eng.SetTonality(playTonality)
	}
	if playTrack >= 0 {
		tr := uint32(playTrack)
		eng.SetTrackFilter(&tr)
	}
	eng.SetVolume(playVolume)

	if playRecord {
		rec, err := wav.NewSessionRecorder(constants.GetRecordingDir(), constants.SampleRate)
		if err != nil {
			panic("Could not create recorder: " + err.Error())
		}
		defer rec.Close()
		eng.RegisterRecordingSink(rec)
		fmt.Printf("recording to: %v\n", rec.Path())
	}

	dev, err := audio.Open(constants.SampleRate)
	if err != nil {
		fmt.Printf("no audio device, playing silently: %v\n", err)
		go pump(eng)
	} else {
		defer dev.Close()
		dev.Start(eng)
	}

	count := playCount
	if count <= 0 {
		count = eng.PoolSize()
	}
	for i := 0; i < count; i++ {
		if err := eng.TriggerNote(1); err != nil {
			panic(err)
		}
		time.Sleep(playInterval)
	}
	// let the release tails ring out
	time.Sleep(time.Second)
}

// pump drains the engine at roughly real-time pace so recording still
// works when no audio device is available.
func pump(eng *engine.Engine) {
	buf := make([]byte, constants.SampleRate/10*2)
	for {
		eng.Read(buf)
		time.Sleep(100 * time.Millisecond)
	}
}
