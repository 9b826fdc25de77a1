package constants

import "os"

func GetMediaDir() string {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path
	}

	panic("MEDIA_PATH environment variable is not set!")
}

func GetRecordingDir() string {
	path := os.Getenv("RECORDING_PATH")
	if path != "" {
		return path
	}
	return "./recordings"
}

// SampleRate is the output rate every voice is rendered at.
const SampleRate = 44100

// Piano-range bounds applied at ingest.
const (
	NoteMin = 21
	NoteMax = 108
)

// Melodic-track heuristic defaults and the pool cap. The engine treats
// these as tunable, not verified truths.
const (
	DefaultMinTrackNotes = 10
	DefaultMinTrackRange = 7
	DefaultPoolCap       = 300
)

// MaxVoices bounds concurrent voices; the oldest gets stolen past this.
const MaxVoices = 64

const MetadataTable = "ballmidi-metadata"
