package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SigireddyBalasai/hey-bear-sub000/ingestion"
)

// errorResponse is the JSON body for every failed request.
type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, label, message string) {
	writeJSON(w, status, errorResponse{Error: label, Message: message})
}

// writePipelineError maps a classified pipeline failure onto the HTTP
// contract. Crawl submission rejections mirror the remote status so the
// caller sees what the crawl service said.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	var pipeErr *ingestion.Error
	if !errors.As(err, &pipeErr) {
		s.writeInternalError(w, err)
		return
	}

	resp := errorResponse{
		Error:   pipeErr.Kind.String(),
		Message: pipeErr.Message,
		Details: pipeErr.MissingFields,
	}

	status := http.StatusInternalServerError
	switch pipeErr.Kind {
	case ingestion.KindInvalidRequest,
		ingestion.KindCrawlFailed,
		ingestion.KindNoContent,
		ingestion.KindDestinationConfig:
		status = http.StatusBadRequest
	case ingestion.KindNotFound:
		status = http.StatusNotFound
	case ingestion.KindCrawlSubmission:
		status = http.StatusBadGateway
		if pipeErr.RemoteStatus > 0 {
			status = pipeErr.RemoteStatus
		}
	}

	writeJSON(w, status, resp)
}

// writeInternalError responds with a generic 500. The underlying detail
// is logged always and surfaced to the caller only in debug mode.
func (s *Server) writeInternalError(w http.ResponseWriter, err error) {
	s.logger.Error("internal server error", "err", err)
	message := ""
	if s.debug && err != nil {
		message = err.Error()
	}
	writeError(w, http.StatusInternalServerError, "internal server error", message)
}
