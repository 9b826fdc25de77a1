package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/iFeyz/tiktok-ball-sub001/audio"
	"github.com/iFeyz/tiktok-ball-sub001/constants"
	"github.com/iFeyz/tiktok-ball-sub001/engine"
	"github.com/iFeyz/tiktok-ball-sub001/model"
)

var eng *engine.Engine

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the engine over http",
	Long:  `Serves the engine over http`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// InitServeEngine creates the engine the handlers share. Split out so
// tests can drive the handlers without binding a port.
func InitServeEngine() {
	eng = engine.New()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func statusSnapshot() model.StatusResponse {
	return model.StatusResponse{
		HasNotes:     eng.HasNotes(),
		PoolSize:     eng.PoolSize(),
		ActiveVoices: eng.ActiveVoices(),
		Transpose:    eng.Transpose(),
		Preset:       eng.Preset().String(),
		Volume:       eng.Volume(),
	}
}

// HandleLoad takes a raw midi file as the request body. A file the engine
// rejects still answers 200; loaded false tells the client the previous
// pool is what keeps playing.
func HandleLoad(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, 400, "could not read request body: "+err.Error())
		return
	}
	loaded := eng.LoadMidi(body)
	writeJSON(w, model.LoadResponse{Loaded: loaded, PoolSize: eng.PoolSize()})
}

func HandleTrigger(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, 400, "could not read request body: "+err.Error())
		return
	}

	volume := 1.0
	if len(body) > 0 {
		var input model.TriggerRequestBody
		if err := json.Unmarshal(body, &input); err != nil {
			writeError(w, 400, "could not unmarshal request body: "+err.Error())
			return
		}
		if input.Volume != nil {
			volume = *input.Volume
		}
	}

	if err := eng.TriggerNote(volume); err != nil {
		if errors.Is(err, engine.ErrEmptyPool) {
			writeError(w, 409, err.Error())
			return
		}
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, statusSnapshot())
}

func HandleSettings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, 400, "could not read request body: "+err.Error())
		return
	}
	var input model.SettingsRequestBody
	if err := json.Unmarshal(body, &input); err != nil {
		writeError(w, 400, "could not unmarshal request body: "+err.Error())
		return
	}

	if input.Tonality != nil {
		eng.SetTonality(*input.Tonality)
	}
	if input.Preset != nil {
		eng.SetInstrumentPreset(model.ParsePreset(*input.Preset))
	}
	if input.ClearFilter {
		eng.SetTrackFilter(nil)
	} else if input.TrackFilter != nil {
		eng.SetTrackFilter(input.TrackFilter)
	}
	if input.Volume != nil {
		eng.SetVolume(*input.Volume)
	}
	writeJSON(w, statusSnapshot())
}

func HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, statusSnapshot())
}

func serve() {
	InitServeEngine()

	dev, err := audio.Open(constants.SampleRate)
	if err != nil {
		fmt.Printf("no audio device, serving silently: %v\n", err)
		go pump(eng)
	} else {
		defer dev.Close()
		dev.Start(eng)
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/load", HandleLoad).Methods("POST")
	router.HandleFunc("/trigger", HandleTrigger).Methods("POST")
	router.HandleFunc("/settings", HandleSettings).Methods("POST")
	router.HandleFunc("/status", HandleStatus).Methods("GET")
	log.Fatal(http.ListenAndServe(":8080", cors.Default().Handler(router)))
}
