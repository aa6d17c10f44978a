package ingestion

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/SigireddyBalasai/hey-bear-sub000/contentstore"
	"github.com/SigireddyBalasai/hey-bear-sub000/core"
	"github.com/SigireddyBalasai/hey-bear-sub000/crawler"
	"github.com/SigireddyBalasai/hey-bear-sub000/storage"
	"github.com/google/uuid"
)

const (
	// defaultMaxPolls bounds the number of task status fetches per request.
	defaultMaxPolls = 25
	// defaultPollBudget bounds the polling wall clock. Chosen to leave
	// headroom under a 60s caller-imposed ceiling.
	defaultPollBudget = 50 * time.Second

	defaultPollBaseDelay = 1500 * time.Millisecond
	defaultPollMaxDelay  = 5 * time.Second
	pollBackoffFactor    = 1.1

	defaultMaxUploadAttempts = 3
	defaultUploadBaseDelay   = time.Second
)

// CrawlService abstracts the remote crawl client the pipeline observes
// tasks through. Satisfied by *crawler.Client.
type CrawlService interface {
	// Submit creates a crawl task and returns its remote id.
	Submit(ctx context.Context, targetURL string) (string, error)

	// Task fetches the current state of a crawl task.
	Task(ctx context.Context, taskID string) (*crawler.Task, error)
}

// PendingCrawl reports a crawl that outlived the poll budget. The caller is
// expected to check the task again later rather than treat this as failure.
type PendingCrawl struct {
	TaskID string
}

// Result is the outcome of one ingestion: exactly one of Document or
// Pending is set.
type Result struct {
	Document *core.IngestedDocument
	Pending  *PendingCrawl
}

// Pipeline orchestrates URL ingestion into a destination's content store.
// Safe for concurrent use; each Ingest call is independent.
type Pipeline struct {
	destinations storage.DestinationRepository
	crawl        CrawlService
	store        contentstore.Store
	logger       *slog.Logger

	maxPolls      int
	pollBudget    time.Duration
	pollBaseDelay time.Duration
	pollMaxDelay  time.Duration

	maxUploadAttempts int
	uploadBaseDelay   time.Duration

	tempDir string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPollBudget sets the poll attempt and wall-clock bounds.
func WithPollBudget(maxPolls int, budget time.Duration) Option {
	return func(p *Pipeline) {
		if maxPolls > 0 {
			p.maxPolls = maxPolls
		}
		if budget > 0 {
			p.pollBudget = budget
		}
	}
}

// WithPollDelays sets the base and cap of the poll backoff.
func WithPollDelays(base, max time.Duration) Option {
	return func(p *Pipeline) {
		if base > 0 {
			p.pollBaseDelay = base
		}
		if max > 0 {
			p.pollMaxDelay = max
		}
	}
}

// WithUploadRetry sets the upload attempt budget and base backoff delay.
func WithUploadRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) {
		if maxAttempts > 0 {
			p.maxUploadAttempts = maxAttempts
		}
		if baseDelay > 0 {
			p.uploadBaseDelay = baseDelay
		}
	}
}

// WithTempDir sets the directory temp artifacts are written to.
// Default is the OS temp dir.
func WithTempDir(dir string) Option {
	return func(p *Pipeline) {
		if dir != "" {
			p.tempDir = dir
		}
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	destinations storage.DestinationRepository,
	crawl CrawlService,
	store contentstore.Store,
	opts ...Option,
) (*Pipeline, error) {
	if destinations == nil {
		return nil, ErrDestinationRepositoryRequired
	}
	if crawl == nil {
		return nil, ErrCrawlServiceRequired
	}
	if store == nil {
		return nil, ErrContentStoreRequired
	}

	p := &Pipeline{
		destinations:      destinations,
		crawl:             crawl,
		store:             store,
		logger:            slog.Default(),
		maxPolls:          defaultMaxPolls,
		pollBudget:        defaultPollBudget,
		pollBaseDelay:     defaultPollBaseDelay,
		pollMaxDelay:      defaultPollMaxDelay,
		maxUploadAttempts: defaultMaxUploadAttempts,
		uploadBaseDelay:   defaultUploadBaseDelay,
		tempDir:           os.TempDir(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Ingest runs the full pipeline for one request: validate, resolve the
// destination, submit a crawl task, poll it, extract and enrich the
// content, and upload the document. Validation failures never touch the
// network; submission and polling failures never trigger an upload.
func (p *Pipeline) Ingest(ctx context.Context, req *core.IngestionRequest) (*Result, error) {
	// Fail fast, no network calls yet.
	if missing := core.MissingRequestFields(req); len(missing) > 0 {
		return nil, &Error{
			Kind:          KindInvalidRequest,
			Message:       "missing required fields: " + strings.Join(missing, ", "),
			MissingFields: missing,
		}
	}
	if err := core.ValidateTargetURL(req.TargetURL); err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Message: "invalid url format", Err: err}
	}

	dest, err := p.destinations.GetDestination(ctx, req.DestinationId)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &Error{Kind: KindNotFound, Message: "destination " + req.DestinationId + " does not exist"}
		}
		return nil, &Error{Kind: KindUpstream, Message: "destination lookup failed", Err: err}
	}
	// Owned destinations are invisible to other callers.
	if req.OwnerId != "" && dest.OwnerId != req.OwnerId {
		return nil, &Error{Kind: KindNotFound, Message: "destination " + req.DestinationId + " does not exist"}
	}

	p.logger.Info("starting crawl", "url", req.TargetURL, "destination", req.DestinationId)
	taskID, err := p.crawl.Submit(ctx, req.TargetURL)
	if err != nil {
		var statusErr *crawler.StatusError
		if errors.As(err, &statusErr) {
			// Submission failures are not assumed transient; no retry.
			return nil, &Error{
				Kind:         KindCrawlSubmission,
				Message:      statusErr.Detail,
				RemoteStatus: statusErr.StatusCode,
				Err:          err,
			}
		}
		return nil, &Error{Kind: KindUpstream, Message: "crawl service unreachable", Err: err}
	}

	task, err := p.poll(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		// Budget exhausted without a terminal state. A slow crawl is not a
		// failure; hand the task back to the caller.
		p.logger.Info("crawl still pending after poll budget", "task_id", taskID)
		return &Result{Pending: &PendingCrawl{TaskID: taskID}}, nil
	}

	result := task.PrimaryResult()
	if result == nil {
		return nil, &Error{Kind: KindNoContent, Message: "crawl completed without a result object"}
	}

	document, ok := buildDocument(result, req.TargetURL, time.Now().UTC())
	if !ok {
		return nil, &Error{Kind: KindNoContent, Message: "crawl completed but no usable content was found"}
	}

	file, err := p.upload(ctx, req, document)
	if err != nil {
		return nil, err
	}

	p.logger.Info("url content ingested", "url", req.TargetURL, "file_id", file.Id, "bytes", len(document))
	return &Result{Document: &core.IngestedDocument{
		Id:            file.Id,
		SourceURL:     req.TargetURL,
		Title:         documentTitle(result),
		Description:   resultDescription(result),
		ContentLength: len(document),
		OwnerId:       req.OwnerId,
		DestinationId: req.DestinationId,
	}}, nil
}

// poll observes the task until it reaches a terminal state or the budget
// runs out. Returns (nil, nil) when the budget is exhausted with the task
// still in flight.
func (p *Pipeline) poll(ctx context.Context, taskID string) (*crawler.Task, error) {
	start := time.Now()

	for attempt := 0; attempt < p.maxPolls; attempt++ {
		if time.Since(start) > p.pollBudget {
			return nil, nil
		}

		task, err := p.crawl.Task(ctx, taskID)
		if err != nil {
			// A non-2xx while polling is a hard remote error, not exhaustion.
			var statusErr *crawler.StatusError
			if errors.As(err, &statusErr) {
				return nil, &Error{
					Kind:         KindTaskStatus,
					Message:      statusErr.Detail,
					RemoteStatus: statusErr.StatusCode,
					Err:          err,
				}
			}
			return nil, &Error{Kind: KindTaskStatus, Err: err}
		}

		switch task.Status {
		case crawler.TaskCompleted:
			return task, nil
		case crawler.TaskFailed:
			return nil, &Error{Kind: KindCrawlFailed, Message: taskFailureMessage(task)}
		}

		// Capped exponential backoff before the next poll.
		delay := time.Duration(float64(p.pollBaseDelay) * math.Pow(pollBackoffFactor, float64(attempt)))
		if delay > p.pollMaxDelay {
			delay = p.pollMaxDelay
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, nil
}

// upload writes the document to a temp artifact and pushes it to the
// destination's content store, retrying only connection-class failures.
// The temp artifact is removed on every exit path.
func (p *Pipeline) upload(ctx context.Context, req *core.IngestionRequest, document string) (*contentstore.File, error) {
	handle := p.store.Destination(req.StoreIndex)

	path := filepath.Join(p.tempDir, "url-"+uuid.NewString()+".md")
	if err := os.WriteFile(path, []byte(document), 0600); err != nil {
		return nil, &Error{Kind: KindUnexpected, Message: "failed to write temp artifact", Err: err}
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("failed to remove temp artifact", "path", path, "err", err)
		}
	}()

	// Cheap existence probe before the first attempt only. A missing index
	// is fatal; connection failures here are deliberately downgraded — the
	// upload's own retry logic is the authority on those.
	if _, err := handle.ListFiles(ctx); err != nil {
		switch {
		case errors.Is(err, contentstore.ErrIndexNotFound):
			return nil, &Error{
				Kind:    KindDestinationConfig,
				Message: "content store index " + req.StoreIndex + " does not exist",
				Err:     err,
			}
		case contentstore.IsConnectionError(err):
			p.logger.Warn("existence probe hit connection error, proceeding to upload", "err", err)
		default:
			return nil, &Error{Kind: KindUnexpected, Message: "content store probe failed", Err: err}
		}
	}

	metadata := contentstore.FileMetadata{
		"source":    req.TargetURL,
		"type":      "webpage",
		"dateAdded": time.Now().UTC().Format(time.RFC3339),
	}

	var file *contentstore.File
	err := retryWithBackoff(ctx, func() error {
		uploaded, uploadErr := handle.UploadFile(ctx, path, metadata)
		if uploadErr != nil {
			return uploadErr
		}
		file = uploaded
		return nil
	}, contentstore.IsConnectionError, p.maxUploadAttempts, p.uploadBaseDelay)
	if err != nil {
		switch {
		case errors.Is(err, contentstore.ErrIndexNotFound):
			return nil, &Error{
				Kind:    KindDestinationConfig,
				Message: "content store index " + req.StoreIndex + " does not exist",
				Err:     err,
			}
		case contentstore.IsConnectionError(err):
			return nil, &Error{
				Kind:    KindConnection,
				Message: "content store unreachable after " + strconv.Itoa(p.maxUploadAttempts) + " attempts",
				Err:     err,
			}
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			return nil, &Error{Kind: KindUnexpected, Message: "failed to upload content", Err: err}
		}
	}

	return file, nil
}

// taskFailureMessage extracts the most specific remote failure message.
func taskFailureMessage(task *crawler.Task) string {
	if task.ErrorMessage != "" {
		return task.ErrorMessage
	}
	if result := task.PrimaryResult(); result != nil && result.ErrorMessage != "" {
		return result.ErrorMessage
	}
	return "crawl task failed without an error message"
}

// resultDescription returns the crawled page description, if any.
func resultDescription(res *crawler.Result) string {
	if res.Metadata != nil {
		return res.Metadata.Description
	}
	return ""
}
