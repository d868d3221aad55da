package codec

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-spritecodec/sprite"
)

// Job is one block to decode in a batch.
type Job struct {
	Buf  []byte
	Dict []byte
	Meta sprite.Meta
}

// Result pairs a decoded block with the error that prevented decoding it.
type Result struct {
	Block *sprite.Block
	Err   error
}

// DecodeAll decodes every job on up to workers goroutines (GOMAXPROCS if
// workers is not positive). A failing job only sets its own Result.Err. The
// returned error is non-nil only if ctx was cancelled; jobs that had not
// started by then carry ctx.Err().
//
// Dictionaries may be shared between jobs; decoders only read them.
func DecodeAll(ctx context.Context, jobs []Job, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range jobs {
		i := i
		if err := ctx.Err(); err != nil {
			for j := i; j < len(jobs); j++ {
				results[j].Err = err
			}
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Block, results[i].Err = Decode(jobs[i].Buf, jobs[i].Dict, jobs[i].Meta)
			return nil
		})
	}
	g.Wait()
	return results, ctx.Err()
}
