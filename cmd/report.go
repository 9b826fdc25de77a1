package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iFeyz/tiktok-ball-sub001/constants"
	"github.com/iFeyz/tiktok-ball-sub001/db"
	"github.com/iFeyz/tiktok-ball-sub001/file"
	"github.com/iFeyz/tiktok-ball-sub001/midi"
	"github.com/iFeyz/tiktok-ball-sub001/model"
	"github.com/iFeyz/tiktok-ball-sub001/track"
	"github.com/iFeyz/tiktok-ball-sub001/util"
)

var reportMetadata bool

func init() {
	reportCmd.Flags().BoolVar(&reportMetadata, "metadata", false, "look up song metadata in DynamoDB")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report over the media dir",
	Long:  `Creates a report over the media dir`,
	Run: func(cmd *cobra.Command, args []string) {
		var maxNum int
		if len(args) == 1 {
			arg1, err := strconv.Atoi(args[0])
			if err != nil {
				panic(err)
			}
			maxNum = arg1
		}
		report(maxNum)
	},
}

type mediaReport struct {
	numFiles      int64
	numParsed     int64
	numTracks     int64
	melodicTracks int64
	notesPerFile  []int64
}

func analyzeMedia(fileNumMap model.FileNumToMidiPath) mediaReport {
	var report mediaReport
	for _, num := range util.GetKeys(fileNumMap) {
		path := fileNumMap[num]
		report.numFiles += 1
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("could not read %v: %v\n", path, err)
			continue
		}
		res, err := midi.Parse(data)
		if err != nil {
			fmt.Printf("could not parse %v: %v\n", path, err)
			continue
		}
		report.numParsed += 1
		report.numTracks += int64(len(res.Stats))
		melodic := track.SelectMelodic(res.Stats, constants.DefaultMinTrackNotes, constants.DefaultMinTrackRange)
		report.melodicTracks += int64(len(melodic))
		report.notesPerFile = append(report.notesPerFile, int64(len(res.Events)))
	}
	return report
}

func report(maxNum int) {
	paths := util.GatherAllMidiPaths(constants.GetMediaDir(), maxNum)
	fileNumMap := file.CreateFileNumMap(paths)
	mediaReport := analyzeMedia(fileNumMap)

	fmt.Printf("mediaReport.numFiles: %v\n", mediaReport.numFiles)
	fmt.Printf("mediaReport.numParsed: %v\n", mediaReport.numParsed)
	fmt.Printf("mediaReport.numTracks: %v\n", mediaReport.numTracks)
	fmt.Printf("mediaReport.melodicTracks: %v\n", mediaReport.melodicTracks)
	fmt.Printf("files with usable notes: %v\n", len(util.FilterZeros(mediaReport.notesPerFile)))
	fmt.Printf("total usable notes: %v\n", util.Sum(mediaReport.notesPerFile))

	if reportMetadata {
		printMetadata(paths)
	}
}

func printMetadata(paths []string) {
	for i := 0; i < len(paths); i += 10 {
		batch := paths[i:util.Min(i+10, len(paths))]
		var filenames []string
		for _, p := range batch {
			filenames = append(filenames, filepath.Base(p))
		}
		metadatas := db.GetSongMetadatas(filenames)
		for _, filename := range filenames {
			meta, ok := metadatas[filename]
			if ok {
				fmt.Printf("%v: %v - %v (%v, %v)\n", filename, meta.Artist, meta.Title, meta.Release, meta.Year)
			} else {
				fmt.Printf("%v: no metadata\n", filename)
			}
		}
	}
}
