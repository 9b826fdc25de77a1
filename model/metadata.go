package model

type FileNumToMidiPath = map[uint32]string

type SongMetadata struct {
	Title   string
	Artist  string
	Release string
	Year    uint
}
