package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"remap/internal/expr"
	"remap/internal/value"
)

// Options tunes one pipeline run. Zero values pick the defaults.
type Options struct {
	Format    Format
	BatchSize int // records per batch
	Jobs      int // batches resolved concurrently
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = FormatJSON
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 256
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	return o
}

// Stats counts per-record outcomes of one run.
type Stats struct {
	Total       uint64
	Transformed uint64
	Aborted     uint64
	Errored     uint64
}

// Runner streams records through a compiled program. Batches are
// resolved concurrently; output keeps input order.
type Runner struct {
	prog *expr.Program
	opts Options
}

func NewRunner(prog *expr.Program, opts Options) *Runner {
	return &Runner{prog: prog, opts: opts.withDefaults()}
}

type batch struct {
	targets []expr.Target
	records []value.Value // original decoded records, for reject reporting
}

// Run decodes records from dec, resolves them, and writes the surviving
// records to out. Aborted and failed records go to rejects when it is
// non-nil and are dropped otherwise. Run stops early only on decode or
// encode failure, or when ctx is cancelled; per-record evaluation
// failures never stop the stream.
func (r *Runner) Run(ctx context.Context, dec Decoder, out, rejects Encoder) (Stats, error) {
	var stats Stats
	for {
		window, err := r.readWindow(dec)
		if err != nil {
			return stats, err
		}
		if len(window) == 0 {
			return stats, nil
		}

		outcomes := make([][]expr.Resolved, len(window))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(r.opts.Jobs, len(window)))
		for i, b := range window {
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				bctx := expr.NewBatchContext(b.targets)
				r.prog.ResolveBatch(bctx)
				outcomes[i] = bctx.Outcomes()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return stats, err
		}

		for i, b := range window {
			if err := r.flush(b, outcomes[i], out, rejects, &stats); err != nil {
				return stats, err
			}
		}
	}
}

// readWindow reads up to Jobs batches of up to BatchSize records each.
// A short window means the stream ended.
func (r *Runner) readWindow(dec Decoder) ([]batch, error) {
	var window []batch
	for len(window) < r.opts.Jobs {
		b := batch{
			targets: make([]expr.Target, 0, r.opts.BatchSize),
			records: make([]value.Value, 0, r.opts.BatchSize),
		}
		for len(b.records) < r.opts.BatchSize {
			rec, err := dec.Next()
			if errors.Is(err, io.EOF) {
				if len(b.records) > 0 {
					window = append(window, b)
				}
				return window, nil
			}
			if err != nil {
				return window, err
			}
			if rec.Kind != value.VKObject {
				return window, fmt.Errorf("record is not an object: %s", rec)
			}
			b.records = append(b.records, rec)
			b.targets = append(b.targets, expr.NewObjectTarget(rec))
		}
		window = append(window, b)
	}
	return window, nil
}

func (r *Runner) flush(b batch, outcomes []expr.Resolved, out, rejects Encoder, stats *Stats) error {
	for i, res := range outcomes {
		stats.Total++
		if !res.Failed() {
			stats.Transformed++
			target := b.targets[i].(*expr.ObjectTarget)
			if err := out.Write(target.Value()); err != nil {
				return err
			}
			continue
		}
		if res.Err.IsAbort() {
			stats.Aborted++
		} else {
			stats.Errored++
		}
		if rejects == nil {
			continue
		}
		if err := rejects.Write(rejectRecord(b.records[i], res.Err)); err != nil {
			return err
		}
	}
	return nil
}

// rejectRecord wraps a failed record with the reason it was dropped.
func rejectRecord(rec value.Value, err *expr.ExpressionError) value.Value {
	out := map[string]value.Value{
		"record":  rec,
		"aborted": value.Boolean(err.IsAbort()),
	}
	if msg, ok := err.AbortMessage(); ok {
		out["message"] = value.String(msg)
	} else if !err.IsAbort() {
		out["error"] = value.String(err.Error())
	}
	return value.Object(out)
}
