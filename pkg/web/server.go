// Package web serves the trait calculation over a JSON HTTP API and streams
// watch-mode run status as server-sent events.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/ritzau/glytrait/pkg/formula"
	"github.com/ritzau/glytrait/pkg/frame"
	"github.com/ritzau/glytrait/pkg/input"
	"github.com/ritzau/glytrait/pkg/logging"
	"github.com/ritzau/glytrait/pkg/meta"
	"github.com/ritzau/glytrait/pkg/pubsub"
	"github.com/ritzau/glytrait/pkg/report"
	"github.com/ritzau/glytrait/pkg/workflow"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 16 << 20

// Server is the HTTP API
type Server struct {
	router    *mux.Router
	defaults  workflow.Options
	publisher *pubsub.SSEPublisher
}

// NewServer creates a server. defaults supplies the preprocessing and
// post-filtering options of trait requests and the mode used when a request
// names none.
func NewServer(defaults workflow.Options) *Server {
	publisher := pubsub.NewSSEPublisher()
	// late subscribers see the latest run
	publisher.ConfigureTopic(pubsub.RunsTopic, pubsub.TopicConfig{BufferSize: 10})

	s := &Server{
		router:    mux.NewRouter(),
		defaults:  defaults,
		publisher: publisher,
	}
	s.setupRoutes()
	return s
}

// PublishRun announces a run status change to /api/subscribe/runs
func (s *Server) PublishRun(eventType string, status pubsub.RunStatus) error {
	return s.publisher.Publish(pubsub.RunsTopic, eventType, status)
}

// Handler returns the routed handler with request logging
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/subscribe/runs", s.handleSubscribeRuns).Methods("GET")

	s.router.HandleFunc("/api/meta-properties", s.handleMetaProperties).Methods("GET")
	s.router.HandleFunc("/api/formulas", s.handleFormulas).Methods("GET")
	s.router.HandleFunc("/api/classify", s.handleClassify).Methods("POST")
	s.router.HandleFunc("/api/traits", s.handleTraits).Methods("POST")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, fmt.Errorf("no route for %s", r.URL.Path))
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, fmt.Errorf("%s not allowed on %s", r.Method, r.URL.Path))
	})
}

// Start serves on port until ctx is done
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logging.Info("Starting web server", "url", fmt.Sprintf("http://localhost:%d", port))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.publisher.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logging.Info("Web server stopped")
	return nil
}

func (s *Server) handleSubscribeRuns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub, err := s.publisher.Subscribe(r.Context(), pubsub.RunsTopic)
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, err)
		return
	}
	defer sub.Close()

	flusher, _ := w.(http.Flusher)
	fmt.Fprint(w, ": connected\n\n")
	if flusher != nil {
		flusher.Flush()
	}

	for event := range sub.Events() {
		if err := pubsub.WriteSSE(w, event); err != nil {
			logging.DebugContext(r.Context(), "Run stream closed", "error", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// mode reads a mode name, falling back to the server default
func (s *Server) mode(name string) (meta.Mode, error) {
	if name == "" {
		return s.defaults.Mode, nil
	}
	return meta.ParseMode(name)
}

func (s *Server) handleMetaProperties(w http.ResponseWriter, r *http.Request) {
	mode, err := s.mode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, meta.Properties(mode, true))
}

// FormulaInfo describes a loaded formula
type FormulaInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Expression  string   `json:"expression"`
	Numerator   []string `json:"numerator"`
	Denominator []string `json:"denominator"`
	Coefficient float64  `json:"coefficient"`
	Linkage     bool     `json:"linkage"`
}

func formulaInfos(formulas []*formula.Formula) []FormulaInfo {
	out := make([]FormulaInfo, len(formulas))
	for i, f := range formulas {
		out[i] = FormulaInfo{
			Name:        f.Name,
			Description: f.Description,
			Expression:  f.Expression,
			Numerator:   f.NumeratorNames(),
			Denominator: f.DenominatorNames(),
			Coefficient: f.Coefficient,
			Linkage:     f.Linkage,
		}
	}
	return out
}

func (s *Server) handleFormulas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, err := s.mode(q.Get("mode"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	siaLinkage := false
	if v := q.Get("sia_linkage"); v != "" {
		siaLinkage = v == "true" || v == "1"
	}
	formulas, err := formula.Load(mode, nil, siaLinkage)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, formulaInfos(formulas))
}

// ClassifyRequest asks for the meta-properties of one glycan, given as
// GlycoCT in structure mode or as composition shorthand
type ClassifyRequest struct {
	Mode       string `json:"mode"`
	Glycan     string `json:"glycan"`
	SiaLinkage bool   `json:"siaLinkage"`
}

// GlycanProperties holds the meta-properties of one glycan
type GlycanProperties struct {
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	mode, err := s.mode(req.Mode)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Glycan) == "" {
		writeError(w, r, http.StatusBadRequest, errors.New("glycan is required"))
		return
	}

	id := "glycan"
	ids := []string{id}
	var table *meta.Table
	switch mode {
	case meta.CompositionMode:
		id = strings.TrimSpace(req.Glycan)
		ids = []string{id}
		comps, cerr := input.ParseCompositions(ids)
		if cerr != nil {
			writeError(w, r, http.StatusUnprocessableEntity, cerr)
			return
		}
		table, err = meta.BuildCompositionTable(r.Context(), ids, comps, req.SiaLinkage)
	default:
		structures, serr := input.ParseStructures(r.Context(), ids, []string{req.Glycan})
		if serr != nil {
			writeError(w, r, http.StatusUnprocessableEntity, serr)
			return
		}
		table, err = meta.BuildStructureTable(r.Context(), ids, structures, req.SiaLinkage)
	}
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	row, _ := table.Row(id)
	writeJSON(w, http.StatusOK, GlycanProperties{ID: id, Properties: row})
}

// GlycanInput is one glycan of a trait request. In composition mode the
// composition doubles as the id when id is empty.
type GlycanInput struct {
	ID          string `json:"id"`
	Structure   string `json:"structure,omitempty"`
	Composition string `json:"composition,omitempty"`
}

// SampleInput holds the abundances of one sample keyed by glycan id.
// Glycans left out count as missing.
type SampleInput struct {
	Name      string             `json:"name"`
	Abundance map[string]float64 `json:"abundance"`
}

// TraitsRequest asks for the traits of a set of samples. Formulas is optional
// formula file text appended to the built-in formulas.
type TraitsRequest struct {
	Mode       string        `json:"mode"`
	SiaLinkage bool          `json:"siaLinkage"`
	Glycans    []GlycanInput `json:"glycans"`
	Samples    []SampleInput `json:"samples"`
	Formulas   string        `json:"formulas,omitempty"`
	PostFilter *bool         `json:"postFilter,omitempty"`
}

// Value is a trait value; missing values encode as null
type Value float64

func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// TraitTable is a samples by traits table
type TraitTable struct {
	Traits []string  `json:"traits"`
	Values [][]Value `json:"values"`
}

func traitTable(f *frame.Frame) TraitTable {
	if f == nil {
		return TraitTable{Traits: []string{}, Values: [][]Value{}}
	}
	t := TraitTable{Traits: f.Cols(), Values: make([][]Value, len(f.Rows()))}
	for i := range t.Values {
		row := f.Row(i)
		t.Values[i] = make([]Value, len(row))
		for j, v := range row {
			t.Values[i][j] = Value(v)
		}
	}
	return t
}

// TraitsResponse is the result of a trait request
type TraitsResponse struct {
	Samples         []string           `json:"samples"`
	Glycans         []GlycanProperties `json:"glycans"`
	Direct          TraitTable         `json:"direct"`
	Derived         TraitTable         `json:"derived"`
	Formulas        []FormulaInfo      `json:"formulas"`
	DroppedGlycans  int                `json:"droppedGlycans"`
	InvalidTraits   int                `json:"invalidTraits"`
	CollinearTraits int                `json:"collinearTraits"`
}

func newTraitsResponse(r *report.Result) TraitsResponse {
	resp := TraitsResponse{
		Samples:         r.Samples(),
		Direct:          traitTable(r.Direct),
		Derived:         traitTable(r.Derived),
		Formulas:        formulaInfos(r.Formulas),
		DroppedGlycans:  r.InputGlycans - r.FilteredGlycans,
		InvalidTraits:   r.InvalidTraits,
		CollinearTraits: r.CollinearTraits,
	}
	for _, id := range r.Meta.IDs() {
		row, _ := r.Meta.Row(id)
		resp.Glycans = append(resp.Glycans, GlycanProperties{ID: id, Properties: row})
	}
	return resp
}

func (s *Server) handleTraits(w http.ResponseWriter, r *http.Request) {
	var req TraitsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	mode, err := s.mode(req.Mode)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	data, err := requestData(req, mode)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	var user io.Reader
	if req.Formulas != "" {
		user = strings.NewReader(req.Formulas)
	}
	formulas, err := formula.Load(mode, user, req.SiaLinkage)
	if err != nil {
		writeError(w, r, formulaStatus(err), err)
		return
	}

	opts := s.defaults
	opts.Mode = mode
	opts.SiaLinkage = req.SiaLinkage
	if req.PostFilter != nil {
		opts.PostFilter = *req.PostFilter
	}

	result, err := workflow.Compute(r.Context(), data, formulas, opts)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	logging.InfoContext(r.Context(), "Computed traits", "samples", len(result.Samples()), "derived", result.DerivedCount())
	writeJSON(w, http.StatusOK, newTraitsResponse(result))
}

// requestData converts a trait request into workflow input
func requestData(req TraitsRequest, mode meta.Mode) (workflow.Data, error) {
	if len(req.Glycans) == 0 {
		return workflow.Data{}, errors.New("no glycans given")
	}
	if len(req.Samples) == 0 {
		return workflow.Data{}, errors.New("no samples given")
	}

	data := workflow.Data{IDs: make([]string, len(req.Glycans))}
	for i, g := range req.Glycans {
		id := g.ID
		if id == "" && mode == meta.CompositionMode {
			id = g.Composition
		}
		if id == "" {
			return workflow.Data{}, fmt.Errorf("glycan %d has no id", i+1)
		}
		data.IDs[i] = id
		if mode == meta.StructureMode {
			if g.Structure == "" {
				return workflow.Data{}, fmt.Errorf("glycan %s has no structure", id)
			}
			data.Structures = append(data.Structures, g.Structure)
		}
	}
	data.StructureColumn = data.Structures != nil

	known := make(map[string]bool, len(data.IDs))
	for _, id := range data.IDs {
		known[id] = true
	}

	names := make([]string, len(req.Samples))
	values := make([][]float64, len(req.Samples))
	for i, sample := range req.Samples {
		names[i] = sample.Name
		values[i] = make([]float64, len(data.IDs))
		for j, id := range data.IDs {
			v, ok := sample.Abundance[id]
			switch {
			case !ok:
				v = math.NaN()
			case v < 0:
				return workflow.Data{}, fmt.Errorf("sample %s: negative abundance for %s", sample.Name, id)
			}
			values[i][j] = v
		}
		for id := range sample.Abundance {
			if !known[id] {
				return workflow.Data{}, fmt.Errorf("sample %s: unknown glycan %s", sample.Name, id)
			}
		}
	}

	abundance, err := frame.FromRows(names, data.IDs, values)
	if err != nil {
		return workflow.Data{}, err
	}
	data.Abundance = abundance
	return data, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logging.DebugContext(r.Context(), "Request error", "status", status, "error", err)
	writeJSON(w, status, map[string]string{
		"error":     err.Error(),
		"requestId": logging.GetRequestID(r.Context()),
	})
}

// formulaStatus maps a formula loading error to a status: formulas that do
// not parse or clash by name are unprocessable, a broken file layout is a
// bad request
func formulaStatus(err error) int {
	var parseErr *formula.FormulaParseError
	if errors.As(err, &parseErr) {
		return http.StatusUnprocessableEntity
	}
	var formulaErr *formula.FormulaError
	if errors.As(err, &formulaErr) && formulaErr.Formula != "" {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}
