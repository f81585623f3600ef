package cluster

import (
	"log/slog"
	"time"

	"github.com/go-sif/kthfreq"
	"github.com/go-sif/kthfreq/internal/stats"
	uuid "github.com/gofrs/uuid"
)

// invocation holds the state of one computation. Nothing in it is shared with any other computation.
type invocation struct {
	id           string
	logger       *slog.Logger
	metrics      kthfreq.MetricsCollector
	statsTracker *stats.RunStatistics
	currentStage string
	budget       time.Duration // the time the computation was allowed, or 0 if unbounded
}

func newInvocation(opts *Options) *invocation {
	id := uuid.Must(uuid.NewV4()).String()
	inv := &invocation{
		id:           id,
		logger:       opts.Logger.With("computation", id),
		metrics:      opts.Metrics,
		statsTracker: &stats.RunStatistics{},
	}
	inv.statsTracker.Start(opts.NumPartitions)
	return inv
}

// enterStage ends the current stage, if any, and begins the named one. An empty name only ends the current stage.
func (inv *invocation) enterStage(name string) {
	if inv.currentStage != "" {
		elapsed := inv.statsTracker.EndStage()
		inv.metrics.RecordStageDuration(inv.currentStage, elapsed.Seconds())
		inv.logger.Debug("Stage complete", "stage", inv.currentStage, "elapsed", elapsed)
	}
	inv.currentStage = name
	if name != "" {
		inv.statsTracker.StartStage(name)
	}
}

// finish closes the computation, reporting its outcome
func (inv *invocation) finish(outcome string) {
	inv.enterStage("")
	inv.statsTracker.Finish()
	inv.metrics.RecordComputation(outcome, inv.statsTracker.GetRuntime().Seconds())
}
