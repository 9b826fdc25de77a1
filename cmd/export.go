package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iFeyz/tiktok-ball-sub001/constants"
	"github.com/iFeyz/tiktok-ball-sub001/export"
	"github.com/iFeyz/tiktok-ball-sub001/midi"
	"github.com/iFeyz/tiktok-ball-sub001/tonality"
	"github.com/iFeyz/tiktok-ball-sub001/track"
)

var (
	exportOut      string
	exportTonality string
)

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "pool.mid", "output path")
	exportCmd.Flags().StringVar(&exportTonality, "tonality", "", "transpose into this key")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exports the extracted note pool as a midi file",
	Long:  `Exports the extracted note pool as a midi file`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		exportPool(args[0])
	},
}

func exportPool(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		panic("Could not read file: " + err.Error())
	}
	res, err := midi.Parse(data)
	if err != nil {
		panic("Could not parse file: " + err.Error())
	}
	notes := track.Select(res.Events, res.Stats, constants.DefaultMinTrackNotes, constants.DefaultMinTrackRange, constants.DefaultPoolCap)
	if len(notes) == 0 {
		panic("No notes to export")
	}
	if exportTonality != "" {
		offset := tonality.Offset(exportTonality)
		for i := range notes {
			notes[i].Note = tonality.Transpose(notes[i].Note, offset)
		}
	}

	f, err := os.Create(exportOut)
	if err != nil {
		panic("Could not create output file: " + err.Error())
	}
	defer f.Close()

	if err := export.Write(f, notes, res.Header.TimeDivision); err != nil {
		panic("Could not write midi: " + err.Error())
	}
	fmt.Printf("wrote %v notes to %v\n", len(notes), exportOut)
}
