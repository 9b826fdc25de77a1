package model

type LoadResponse struct {
	Loaded   bool `json:"loaded"`
	PoolSize int  `json:"pool_size"`
}

type TriggerRequestBody struct {
	Volume *float64 `json:"volume,omitempty"`
}

type SettingsRequestBody struct {
	Tonality    *string  `json:"tonality,omitempty"`
	Preset      *string  `json:"preset,omitempty"`
	TrackFilter *uint32  `json:"track_filter,omitempty"`
	ClearFilter bool     `json:"clear_filter,omitempty"`
	Volume      *float64 `json:"volume,omitempty"`
}

type StatusResponse struct {
	HasNotes     bool    `json:"has_notes"`
	PoolSize     int     `json:"pool_size"`
	ActiveVoices int     `json:"active_voices"`
	Transpose    int     `json:"transpose"`
	Preset       string  `json:"preset"`
	Volume       float64 `json:"volume"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
