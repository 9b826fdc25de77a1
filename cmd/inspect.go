package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/iFeyz/tiktok-ball-sub001/constants"
	"github.com/iFeyz/tiktok-ball-sub001/midi"
	"github.com/iFeyz/tiktok-ball-sub001/track"
	"github.com/iFeyz/tiktok-ball-sub001/util"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspects a midi file",
	Long:  `Inspects a midi file`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		inspect(args[0])
	},
}

func inspect(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		panic("Could not read file: " + err.Error())
	}
	res, err := midi.Parse(data)
	if err != nil {
		panic("Could not parse file: " + err.Error())
	}

	fmt.Printf("format: %v\n", res.Header.Format)
	fmt.Printf("tracks: %v\n", res.Header.TrackCount)
	fmt.Printf("division: %v\n", res.Header.TimeDivision)
	fmt.Printf("usable notes: %v\n", len(res.Events))

	melodic := track.SelectMelodic(res.Stats, constants.DefaultMinTrackNotes, constants.DefaultMinTrackRange)
	keys := util.GetKeys(res.Stats)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, key := range keys {
		st := res.Stats[key]
		marker := " "
		if melodic[key] {
			marker = "*"
		}
		fmt.Printf("%v track %v: notes=%v low=%v high=%v avgVel=%v\n",
			marker, key, st.NoteCount, st.LowestNote, st.HighestNote, st.VelocitySum/uint64(st.NoteCount))
	}

	notes := track.Select(res.Events, res.Stats, constants.DefaultMinTrackNotes, constants.DefaultMinTrackRange, constants.DefaultPoolCap)
	fmt.Printf("pool: %v notes\n", len(notes))
	for i, ev := range notes {
		if i == 8 {
			fmt.Printf("  ...\n")
			break
		}
		fmt.Printf("  tick=%v track=%v note=%v vel=%v\n", ev.TimingTicks, ev.Track, ev.Note, ev.Velocity)
	}
}
