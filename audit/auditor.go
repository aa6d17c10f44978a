package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/SigireddyBalasai/hey-bear-sub000/contentstore"
	"github.com/SigireddyBalasai/hey-bear-sub000/core"
	"github.com/SigireddyBalasai/hey-bear-sub000/storage"
)

var (
	// ErrDestinationRepositoryRequired is returned when a destination repository is not provided.
	ErrDestinationRepositoryRequired = errors.New("destination repository required")

	// ErrContentStoreRequired is returned when a content store is not provided.
	ErrContentStoreRequired = errors.New("content store required")
)

// Config holds configuration for an audit run.
type Config struct {
	// ReportInterval is how often to report progress (number of destinations)
	ReportInterval int

	// MaxRetries is the maximum number of probe attempts per destination
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff between probes
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Status is the audit outcome for one destination.
type Status string

const (
	// StatusOK means the backing index exists and answered.
	StatusOK Status = "ok"
	// StatusIndexMissing means the store reported the index absent.
	StatusIndexMissing Status = "index-missing"
	// StatusUnreachable means the store stayed unreachable through retries.
	StatusUnreachable Status = "unreachable"
	// StatusError covers probe failures that are neither of the above.
	StatusError Status = "error"
)

// Finding is the audit result for a single destination.
type Finding struct {
	Destination *core.Destination
	Status      Status
	Files       int
	Err         error
}

// Report summarizes one audit run.
type Report struct {
	Findings []Finding
}

// Unhealthy returns the findings whose destinations need attention.
func (r *Report) Unhealthy() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Status != StatusOK {
			out = append(out, f)
		}
	}
	return out
}

// Auditor walks all stored destinations and probes their backing
// content-store indexes.
type Auditor struct {
	dests    storage.DestinationRepository
	store    contentstore.Store
	config   *Config
	progress io.Writer
}

// NewAuditor creates an auditor.
// progress: where to write progress output (typically os.Stderr)
func NewAuditor(dests storage.DestinationRepository, store contentstore.Store, config *Config, progress io.Writer) (*Auditor, error) {
	if dests == nil {
		return nil, ErrDestinationRepositoryRequired
	}
	if store == nil {
		return nil, ErrContentStoreRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Auditor{
		dests:    dests,
		store:    store,
		config:   config,
		progress: progress,
	}, nil
}

// Run probes every destination and returns the findings. Destinations
// sharing an index are probed independently; a broken index shows up
// once per destination that depends on it.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	dests, err := a.dests.ListDestinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}

	if len(dests) == 0 {
		fmt.Fprintf(a.progress, "No destinations to audit\n")
		return &Report{}, nil
	}

	fmt.Fprintf(a.progress, "Auditing %d destinations\n", len(dests))

	tracker := NewProgressTracker(a.progress, len(dests), a.config.ReportInterval)
	tracker.Start()

	report := &Report{Findings: make([]Finding, 0, len(dests))}
	for _, dest := range dests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report.Findings = append(report.Findings, a.probe(ctx, dest))
		tracker.Increment(1)
	}
	tracker.Finish()

	unhealthy := len(report.Unhealthy())
	fmt.Fprintf(a.progress, "Audit complete in %v: %d destinations, %d unhealthy\n",
		tracker.Elapsed().Round(time.Second), len(dests), unhealthy)

	return report, nil
}

// probe checks one destination's index, retrying connection failures
// with exponential backoff.
func (a *Auditor) probe(ctx context.Context, dest *core.Destination) Finding {
	handle := a.store.Destination(dest.StoreIndex)

	var lastErr error
	for attempt := 1; attempt <= a.config.MaxRetries; attempt++ {
		files, err := handle.ListFiles(ctx)
		if err == nil {
			return Finding{Destination: dest, Status: StatusOK, Files: len(files)}
		}
		if errors.Is(err, contentstore.ErrIndexNotFound) {
			return Finding{Destination: dest, Status: StatusIndexMissing, Err: err}
		}
		if !contentstore.IsConnectionError(err) {
			return Finding{Destination: dest, Status: StatusError, Err: err}
		}

		lastErr = err
		if attempt == a.config.MaxRetries {
			break
		}

		delay := a.config.RetryDelay
		for i := 1; i < attempt; i++ {
			delay *= 2
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Finding{Destination: dest, Status: StatusUnreachable, Err: ctx.Err()}
		case <-timer.C:
		}
	}

	return Finding{Destination: dest, Status: StatusUnreachable, Err: lastErr}
}
