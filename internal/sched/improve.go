package sched

import (
	"context"
	"math/rand"

	"satsched/internal/logging"
)

// DefaultImproveBatches is the batch count of a full improvement run. Improve
// takes its batch count as an argument and does not read this constant.
const DefaultImproveBatches = 300

// Improve reruns the solver with a single forced mutation at one sampled
// slice per batch and keeps a variant only when it transmits strictly more.
// The gain is usually minor and the cost is a full re-solve per batch; the
// caller opts in explicitly. The sampling source is seeded so improved runs
// stay reproducible.
func Improve(ctx context.Context, in Inputs, opts Options, base *TransmissionResult,
	solver Solver, batches int, seed int64) (*TransmissionResult, error) {
	log := logging.FromContext(ctx)
	iterations := len(base.Actions)
	if iterations == 0 || batches <= 0 {
		return base, nil
	}
	batchSize := iterations / batches
	if batchSize == 0 {
		batches = iterations
		batchSize = 1
	}
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < batches; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		o := opts
		o.PriorActions = base.Actions
		o.MutationSlice = i*batchSize + rng.Intn(batchSize)
		candidate, err := solver(ctx, in, o)
		if err != nil {
			return nil, err
		}
		if candidate.TotalData > base.TotalData {
			base = candidate
		}
		log.Debug("improver batch done", "batch", i+1, "batches", batches, "total_data_milli", base.TotalData)
	}
	return base, nil
}
