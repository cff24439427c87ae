package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/survex3d/pkg/img3d"
	"github.com/ssargent/survex3d/pkg/storage"
	"github.com/ssargent/survex3d/pkg/survey"
)

// Server holds the API server state
type Server struct {
	archive SurveyArchive
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server
func NewServer(archive SurveyArchive, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		archive: archive,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// decode decodes raw and records metrics for the attempt
func (s *Server) decode(raw []byte) (img3d.Header, img3d.Records, error) {
	start := time.Now()
	header, records, err := img3d.DecodeFile(raw)
	s.metrics.RecordDecode(records, err, time.Since(start))
	if err != nil {
		return header, nil, err
	}
	if unknown := records.Filter(img3d.KindUnknown); len(unknown) > 0 {
		s.logger.Warn("decoded file contains unknown opcodes",
			"count", len(unknown),
			"first_opcode", fmt.Sprintf("0x%02X", unknown[0].(img3d.Unknown).Opcode))
	}
	return header, records, nil
}

// loadSurvey fetches and decodes the survey named by the {id} URL parameter.
// It writes the error response itself and returns ok=false on failure.
func (s *Server) loadSurvey(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, img3d.Header, img3d.Records, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid survey id", http.StatusBadRequest)
		return ksuid.Nil, img3d.Header{}, nil, false
	}

	raw, err := s.archive.Get(id)
	s.metrics.RecordArchiveOperation("get", err == nil || errors.Is(err, storage.ErrSurveyNotFound))
	if errors.Is(err, storage.ErrSurveyNotFound) {
		sendError(w, "Survey not found", http.StatusNotFound)
		return ksuid.Nil, img3d.Header{}, nil, false
	}
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to read survey: %v", err), http.StatusInternalServerError)
		return ksuid.Nil, img3d.Header{}, nil, false
	}

	header, records, err := s.decode(raw)
	if err != nil {
		s.logger.Error("archived survey no longer decodes", "id", id.String(), "error", err)
		sendError(w, fmt.Sprintf("Failed to decode survey: %v", err), http.StatusInternalServerError)
		return ksuid.Nil, img3d.Header{}, nil, false
	}
	return id, header, records, true
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleUpload godoc
//
//	@Summary		Upload a 3D file
//	@Description	Decode a Survex 3D image file and archive it
//	@Tags			surveys
//	@Accept			octet-stream
//	@Produce		json
//	@Param			body	body		[]byte	true	"3D image file"
//	@Success		200		{object}	SurveySummary
//	@Failure		413		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/surveys [post]
//	@Security		ApiKeyAuth
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	body := io.Reader(r.Body)
	if s.config.MaxFileSize > 0 {
		body = http.MaxBytesReader(w, r.Body, s.config.MaxFileSize)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, fmt.Sprintf("File exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	header, records, err := s.decode(raw)
	if err != nil {
		sendDecodeError(w, err)
		return
	}

	id, err := s.archive.Put(raw)
	s.metrics.RecordArchiveOperation("put", err == nil)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to store survey: %v", err), http.StatusInternalServerError)
		return
	}
	s.logger.Info("survey archived", "id", id.String(), "bytes", len(raw), "records", len(records))

	sendSuccess(w, SurveySummary{
		ID:     id,
		Header: header,
		Totals: survey.Build(header, records).Totals(),
	})
}

// handleList godoc
//
//	@Summary		List surveys
//	@Description	List archived surveys, oldest first
//	@Tags			surveys
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		500	{object}	map[string]string
//	@Router			/surveys [get]
//	@Security		ApiKeyAuth
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.archive.List()
	s.metrics.RecordArchiveOperation("list", err == nil)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to list surveys: %v", err), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]interface{}{"surveys": entries})
}

// handleGetSurvey godoc
//
//	@Summary		Get a survey
//	@Description	Get the header and totals of an archived survey
//	@Tags			surveys
//	@Produce		json
//	@Param			id	path		string	true	"Survey ID"
//	@Success		200	{object}	SurveySummary
//	@Failure		400	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/surveys/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	id, header, records, ok := s.loadSurvey(w, r)
	if !ok {
		return
	}
	sendSuccess(w, SurveySummary{
		ID:     id,
		Header: header,
		Totals: survey.Build(header, records).Totals(),
	})
}

// handleRecords godoc
//
//	@Summary		Get survey records
//	@Description	Get the decoded records of a survey in file order
//	@Tags			surveys
//	@Produce		json
//	@Param			id		path		string	true	"Survey ID"
//	@Param			kind	query		string	false	"Comma-separated kinds, e.g. LINE,LABEL"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/surveys/{id}/records [get]
//	@Security		ApiKeyAuth
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	kinds, err := parseKinds(r.URL.Query().Get("kind"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, _, records, ok := s.loadSurvey(w, r)
	if !ok {
		return
	}
	if len(kinds) > 0 {
		records = records.Filter(kinds...)
	}
	sendSuccess(w, map[string]interface{}{"count": len(records), "records": records})
}

// handleStations godoc
//
//	@Summary		Get survey stations
//	@Description	Get labelled stations, optionally those under a label prefix
//	@Tags			surveys
//	@Produce		json
//	@Param			id		path		string	true	"Survey ID"
//	@Param			prefix	query		string	false	"Label prefix"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/surveys/{id}/stations [get]
//	@Security		ApiKeyAuth
func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	_, header, records, ok := s.loadSurvey(w, r)
	if !ok {
		return
	}
	stations := survey.Build(header, records).StationsWithPrefix(r.URL.Query().Get("prefix"))
	sendSuccess(w, map[string]interface{}{"count": len(stations), "stations": stations})
}

// handleDelete godoc
//
//	@Summary		Delete a survey
//	@Description	Remove a survey from the archive
//	@Tags			surveys
//	@Produce		json
//	@Param			id	path		string	true	"Survey ID"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/surveys/{id} [delete]
//	@Security		ApiKeyAuth
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid survey id", http.StatusBadRequest)
		return
	}

	err = s.archive.Delete(id)
	s.metrics.RecordArchiveOperation("delete", err == nil)
	if errors.Is(err, storage.ErrSurveyNotFound) {
		sendError(w, "Survey not found", http.StatusNotFound)
		return
	}
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to delete survey: %v", err), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]string{"message": "Survey deleted successfully"})
}

func parseKinds(param string) ([]img3d.Kind, error) {
	if param == "" {
		return nil, nil
	}
	var kinds []img3d.Kind
	for _, name := range strings.Split(param, ",") {
		k, ok := img3d.ParseKind(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown record kind %q", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// updateArchiveMetrics refreshes the archived-surveys gauge
func (s *Server) updateArchiveMetrics() {
	n, err := s.archive.Count()
	if err != nil {
		s.logger.Warn("failed to count archived surveys", "error", err)
		return
	}
	s.metrics.UpdateArchiveStats(n)
}
