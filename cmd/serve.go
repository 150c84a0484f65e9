package cmd

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/tabrhythm/arrangement"
	"github.com/jsphweid/tabrhythm/config"
	"github.com/jsphweid/tabrhythm/diag"
	"github.com/jsphweid/tabrhythm/model"
	"github.com/jsphweid/tabrhythm/quantize"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the quantizer over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		logger.Info("listening", "addr", addr)
		return http.ListenAndServe(addr, NewRouter(cfg))
	},
}

// server carries the configuration handed to NewRouter.
type server struct {
	cfg *config.Config
}

func NewRouter(c *config.Config) http.Handler {
	if c == nil {
		c = config.Default()
	}
	srv := &server{cfg: c}
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/health", handleHealth).Methods("GET")
	router.HandleFunc("/quantize", srv.handleQuantize).Methods("POST")
	router.HandleFunc("/convert", srv.handleConvert).Methods("POST")
	return cors.New(cors.Options{AllowedOrigins: c.Server.AllowedOrigins}).Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func requestLogger(r *http.Request) *slog.Logger {
	return logger.With("request", uuid.New().String(), "path", r.URL.Path)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleQuantize(w http.ResponseWriter, r *http.Request) {
	var input model.QuantizeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if input.MeasureDuration == 0 {
		input.MeasureDuration = s.cfg.Quantize.MeasureDuration
	}
	if input.BeatDuration == 0 {
		input.BeatDuration = s.cfg.Quantize.BeatDuration
	}

	values, err := quantize.Quantize(input.Durations, input.MeasureDuration, input.BeatDuration,
		diag.NewLogger(requestLogger(r)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, model.QuantizeResponse{Values: values})
}

// handleConvert takes an arrangement as the body and the difficulty as the
// "difficulty" query parameter.
func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	difficulty := s.cfg.Convert.Difficulty
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		difficulty = d
	}
	a, err := arrangement.ReadArrangement(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec := &diag.Recorder{}
	track := arrangement.Convert(a, difficulty, diag.Multi(rec, diag.NewLogger(requestLogger(r))))
	diagnostics := rec.All()
	if diagnostics == nil {
		diagnostics = []diag.Diagnostic{}
	}
	writeJSON(w, http.StatusOK, model.ConvertResponse{Track: track, Diagnostics: diagnostics})
}
