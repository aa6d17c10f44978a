package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SigireddyBalasai/hey-bear-sub000/core"
	"github.com/SigireddyBalasai/hey-bear-sub000/crawler"
	"github.com/SigireddyBalasai/hey-bear-sub000/ingestion"
	"github.com/panjf2000/ants/v2"
)

type ingestURLRequest struct {
	DestinationId  string `json:"destinationId"`
	ContentStoreId string `json:"contentStoreId"`
	TargetURL      string `json:"targetUrl"`
}

type ingestURLResponse struct {
	Message       string `json:"message"`
	FileId        string `json:"fileId"`
	Source        string `json:"source"`
	Title         string `json:"title"`
	ContentLength int    `json:"contentLength"`
}

type pendingCrawlResponse struct {
	Status  string `json:"status"`
	TaskId  string `json:"taskId"`
	PollURL string `json:"pollUrl"`
}

// handleIngestURL runs one URL through the ingestion pipeline. The run
// happens on the bounded ingest pool; a saturated pool sheds the request
// with 503 rather than queueing behind slow crawls.
func (s *Server) handleIngestURL(w http.ResponseWriter, r *http.Request) {
	var body ingestURLRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "request body must be valid JSON")
		return
	}

	req := &core.IngestionRequest{
		OwnerId:       ownerFromContext(r.Context()),
		DestinationId: body.DestinationId,
		StoreIndex:    body.ContentStoreId,
		TargetURL:     body.TargetURL,
	}

	var (
		result *ingestion.Result
		runErr error
	)
	done := make(chan struct{})
	submitErr := s.ingestPool.Submit(func() {
		defer close(done)
		result, runErr = s.pipeline.Ingest(r.Context(), req)
	})
	if submitErr != nil {
		if errors.Is(submitErr, ants.ErrPoolOverload) {
			writeError(w, http.StatusServiceUnavailable, "server busy", "too many concurrent ingestions, retry shortly")
			return
		}
		s.writeInternalError(w, submitErr)
		return
	}
	<-done

	if runErr != nil {
		s.writePipelineError(w, runErr)
		return
	}

	if result.Pending != nil {
		writeJSON(w, http.StatusAccepted, pendingCrawlResponse{
			Status:  "pending",
			TaskId:  result.Pending.TaskID,
			PollURL: "/v1/crawl-tasks/" + result.Pending.TaskID,
		})
		return
	}

	doc := result.Document
	writeJSON(w, http.StatusOK, ingestURLResponse{
		Message:       "URL content added successfully",
		FileId:        doc.Id,
		Source:        doc.SourceURL,
		Title:         doc.Title,
		ContentLength: doc.ContentLength,
	})
}

// handleCrawlTask proxies the remote task status so pending ingestions
// can be observed through the pollUrl without exposing the crawl service.
func (s *Server) handleCrawlTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "invalid request", "task id is required")
		return
	}

	task, err := s.crawl.Task(r.Context(), taskID)
	if err != nil {
		var statusErr *crawler.StatusError
		if errors.As(err, &statusErr) {
			if statusErr.StatusCode == http.StatusNotFound {
				writeError(w, http.StatusNotFound, "task not found", "crawl task "+taskID+" does not exist")
				return
			}
			writeError(w, http.StatusBadGateway, "failed to fetch task status", statusErr.Detail)
			return
		}
		s.writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}
