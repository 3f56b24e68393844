package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultTemplateExt is the conventional template file extension.
const DefaultTemplateExt = ".plume"

// BatchResult pairs one entry path with its compilation outcome.
type BatchResult struct {
	Path string
	Res  *Result
}

// CompileAll compiles paths in parallel. Each file gets an isolated
// pipeline, so one broken template never poisons another; per-file
// outcomes land at the matching index. cache may be nil.
func CompileAll(ctx context.Context, cache *DiskCache, paths []string, opts Options, fingerprint []byte, jobs int) ([]BatchResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]BatchResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			var res *Result
			if cache != nil {
				res = CompileCached(cache, path, opts, fingerprint)
			} else {
				res = Compile(path, opts)
			}
			// the index is unique per goroutine, no lock needed
			results[i] = BatchResult{Path: path, Res: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
