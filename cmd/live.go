package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver

	"github.com/iFeyz/tiktok-ball-sub001/audio"
	"github.com/iFeyz/tiktok-ball-sub001/constants"
	"github.com/iFeyz/tiktok-ball-sub001/engine"
	"github.com/iFeyz/tiktok-ball-sub001/wav"
)

var liveRecord bool

func init() {
	liveCmd.Flags().BoolVar(&liveRecord, "record", false, "record the session to a wav file")
	rootCmd.AddCommand(liveCmd)
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Triggers pool notes from a hardware midi input",
	Long:  `Triggers pool notes from a hardware midi input`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		live(args[0])
	},
}

func live(path string) {
	defer midi.CloseDriver()

	data, err := os.ReadFile(path)
	if err != nil {
		panic("Could not read file: " + err.Error())
	}

	liveEng := engine.New()
	if !liveEng.LoadMidi(data) {
		panic("Could not extract any notes from " + path)
	}
	fmt.Printf("pool size: %v\n", liveEng.PoolSize())

	if liveRecord {
		rec, err := wav.NewSessionRecorder(constants.GetRecordingDir(), constants.SampleRate)
		if err != nil {
			panic("Could not create recorder: " + err.Error())
		}
		defer rec.Close()
		liveEng.RegisterRecordingSink(rec)
		fmt.Printf("recording to: %v\n", rec.Path())
	}

	dev, err := audio.Open(constants.SampleRate)
	if err != nil {
		fmt.Printf("no audio device, playing silently: %v\n", err)
		go pump(liveEng)
	} else {
		defer dev.Close()
		dev.Start(liveEng)
	}

	in, err := midi.InPort(0)
	if err != nil {
		fmt.Println("can't find a midi input")
		return
	}

	// any key on the controller advances the pool; which key does not matter
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			if err := liveEng.TriggerNote(float64(vel) / 127); err != nil {
				fmt.Printf("trigger failed: %v\n", err)
			}
		default:
			// ignore
		}
	})
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return
	}

	time.Sleep(time.Second * 5000) // lol
	stop()
}
