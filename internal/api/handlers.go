package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/speedwagon-io/eohchart/internal/chart"
	"github.com/speedwagon-io/eohchart/internal/dataset"
	"github.com/speedwagon-io/eohchart/internal/lib/logger/sl"
	"github.com/speedwagon-io/eohchart/internal/model"
)

const (
	LevelError   = "error"
	LevelWarning = "warning"
)

type ExtraRequest struct {
	Name   string `json:"name"`
	Values string `json:"values"`
}

type ChartRequest struct {
	// Mode is "defaults" or "manual".
	Mode string `json:"mode"`
	// Count defaults to the configured fleet size, or len(Rows) in manual
	// mode.
	Count    int                `json:"count"`
	Defaults *dataset.RowValues `json:"defaults,omitempty"`
	Rows     []dataset.RowInput `json:"rows,omitempty"`
	Extra    *ExtraRequest      `json:"extra,omitempty"`
}

// Message is a user-visible note about input that was not applied.
type Message struct {
	Level string `json:"level"`
	Code  string `json:"code"`
	Text  string `json:"text"`
}

type DatasetResponse struct {
	RenderID string         `json:"render_id"`
	Dataset  *model.Dataset `json:"dataset"`
	Messages []Message      `json:"messages"`
}

type ChartResponse struct {
	DatasetResponse
	Chart *chart.ChartSpec `json:"chart"`
}

type ErrorResponse struct {
	Error    string `json:"error"`
	RenderID string `json:"render_id,omitempty"`
}

// renderPass is the state of one request: built fresh and discarded.
type renderPass struct {
	id       string
	dataset  *model.Dataset
	spec     *chart.ChartSpec
	messages []Message
}

type requestError struct {
	status int
	err    error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	pass, err := s.prepare(w, r, false)
	if err != nil {
		s.writeError(w, pass, err)
		return
	}

	writeJSON(w, http.StatusOK, DatasetResponse{
		RenderID: pass.id,
		Dataset:  pass.dataset,
		Messages: pass.messages,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	pass, err := s.prepare(w, r, true)
	if err != nil {
		s.writeError(w, pass, err)
		return
	}

	writeJSON(w, http.StatusOK, ChartResponse{
		DatasetResponse: DatasetResponse{
			RenderID: pass.id,
			Dataset:  pass.dataset,
			Messages: pass.messages,
		},
		Chart: pass.spec,
	})
}

func (s *Server) handleRaster(w http.ResponseWriter, r *http.Request) {
	pass, err := s.prepare(w, r, true)
	if err != nil {
		s.writeError(w, pass, err)
		return
	}

	started := time.Now()
	data, err := chart.ExportRaster(r.Context(), pass.spec, s.raster)
	s.metrics.ObserveExport("png", started, err)
	if err != nil {
		s.log.Error("raster export failed",
			slog.String("render_id", pass.id),
			slog.String("backend", s.raster.Backend),
			sl.Err(err),
		)
		s.writeError(w, pass, &requestError{status: http.StatusServiceUnavailable, err: err})
		return
	}

	writeArtifact(w, pass, model.NewRasterArtifact(data))
}

func (s *Server) handleMarkup(w http.ResponseWriter, r *http.Request) {
	pass, err := s.prepare(w, r, true)
	if err != nil {
		s.writeError(w, pass, err)
		return
	}

	started := time.Now()
	markup, err := chart.ExportMarkup(pass.spec, s.markup)
	s.metrics.ObserveExport("html", started, err)
	if err != nil {
		s.log.Error("markup export failed", slog.String("render_id", pass.id), sl.Err(err))
		s.writeError(w, pass, err)
		return
	}

	writeArtifact(w, pass, model.NewMarkupArtifact(markup))
}

// prepare runs the dataset pipeline for one request. Extra column problems
// become messages and leave the dataset without the column.
func (s *Server) prepare(w http.ResponseWriter, r *http.Request, compose bool) (*renderPass, error) {
	pass := &renderPass{id: uuid.New().String(), messages: []Message{}}

	req, err := s.decodeRequest(w, r)
	if err != nil {
		return pass, &requestError{status: http.StatusBadRequest, err: err}
	}

	in, err := s.input(req)
	if err != nil {
		return pass, &requestError{status: http.StatusBadRequest, err: err}
	}

	ds, err := s.builder.Build(in)
	s.metrics.ObserveBuild(in.Strategy.String(), err)
	if err != nil {
		return pass, &requestError{status: http.StatusUnprocessableEntity, err: err}
	}
	pass.dataset = ds

	if req.Extra != nil && (req.Extra.Name != "" || req.Extra.Values != "") {
		withExtra, err := dataset.AddExtraColumn(ds, req.Extra.Name, req.Extra.Values)
		if err != nil {
			msg := extraMessage(err)
			s.metrics.ObserveExtraRejected(msg.Code)
			s.log.Debug("extra column rejected",
				slog.String("render_id", pass.id),
				slog.String("column", req.Extra.Name),
				sl.Err(err),
			)
			pass.messages = append(pass.messages, msg)
		} else {
			pass.dataset = withExtra
		}
	}

	if !compose {
		return pass, nil
	}

	spec, err := chart.Compose(pass.dataset)
	if err != nil {
		return pass, err
	}
	pass.spec = spec

	s.log.Debug("chart composed",
		slog.String("render_id", pass.id),
		slog.Int("units", pass.dataset.Len()),
		slog.Int("series", len(spec.Series)),
	)

	return pass, nil
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*ChartRequest, error) {
	if r.Method == http.MethodGet {
		return requestFromQuery(r)
	}

	var req ChartRequest
	body := r.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return &req, nil
}

func requestFromQuery(r *http.Request) (*ChartRequest, error) {
	q := r.URL.Query()
	req := &ChartRequest{Mode: "defaults"}

	if c := q.Get("count"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
		req.Count = n
	}

	if name, values := q.Get("extra_name"), q.Get("extra_values"); name != "" || values != "" {
		req.Extra = &ExtraRequest{Name: name, Values: values}
	}

	return req, nil
}

func (s *Server) input(req *ChartRequest) (dataset.Input, error) {
	strategy, err := dataset.ParseStrategy(req.Mode)
	if err != nil {
		return dataset.Input{}, err
	}

	in := dataset.Input{
		Strategy: strategy,
		Count:    req.Count,
		Defaults: req.Defaults,
		Rows:     req.Rows,
	}

	if in.Count == 0 {
		switch strategy {
		case dataset.StrategyManual:
			in.Count = len(req.Rows)
		default:
			in.Count = s.defaultUnits
		}
	}

	return in, nil
}

func extraMessage(err error) Message {
	var (
		pe *dataset.ParseError
		ce *dataset.CardinalityError
	)
	switch {
	case errors.As(err, &pe):
		return Message{Level: LevelError, Code: "parse", Text: pe.Error()}
	case errors.As(err, &ce):
		return Message{Level: LevelWarning, Code: "cardinality", Text: ce.Error()}
	case errors.Is(err, dataset.ErrColumnName):
		return Message{Level: LevelError, Code: "column_name", Text: err.Error()}
	default:
		return Message{Level: LevelError, Code: "extra_column", Text: err.Error()}
	}
}

func (s *Server) writeError(w http.ResponseWriter, pass *renderPass, err error) {
	status := http.StatusInternalServerError
	var re *requestError
	if errors.As(err, &re) {
		status = re.status
	}

	resp := ErrorResponse{Error: err.Error()}
	if pass != nil {
		resp.RenderID = pass.id
	}

	writeJSON(w, status, resp)
}

func writeArtifact(w http.ResponseWriter, pass *renderPass, a *model.Artifact) {
	h := w.Header()
	h.Set("Content-Type", a.MIMEType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
	h.Set("Content-Length", strconv.Itoa(len(a.Data)))
	h.Set("X-Render-ID", pass.id)
	h.Set("X-Artifact-ID", a.ID)
	for _, m := range pass.messages {
		h.Add("X-Chart-Message", m.Level+": "+m.Text)
	}

	w.WriteHeader(http.StatusOK)
	w.Write(a.Data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
