package downloader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/eceo-epfl/earth-extractor/catalog"
	"github.com/eceo-epfl/earth-extractor/service/log"
)

const (
	// DefaultConcurrency bounds simultaneous transfers within one provider.
	DefaultConcurrency = 4
	// maxSatelliteWorkers bounds how many satellites download at once in
	// parallel mode.
	maxSatelliteWorkers = 4
)

// Options tune a download run.
type Options struct {
	Parallel    bool
	Overwrite   bool
	Concurrency int
}

// Download fetches every satellite's results with its download provider.
// One satellite's failure is logged and does not cancel the others; the
// errors are merged and reported once every satellite has finished.
func Download(ctx context.Context, sets []catalog.SatelliteResults, downloadDir string, opts Options) error {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if !opts.Parallel {
		var firstErr error
		for _, set := range sets {
			if err := downloadSet(ctx, set, downloadDir, opts); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	wg, ctx := errgroup.WithContext(ctx)
	wg.SetLimit(maxSatelliteWorkers)
	errs := make([]error, len(sets))
	for i, set := range sets {
		i, set := i, set
		wg.Go(func() error {
			errs[i] = downloadSet(ctx, set, downloadDir, opts)
			return nil
		})
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func downloadSet(ctx context.Context, set catalog.SatelliteResults, downloadDir string, opts Options) error {
	ctx = log.With(ctx, "satellite", set.Entry.Satellite.String())
	if len(set.Results) == 0 {
		log.Logger(ctx).Sugar().Infof("%s: nothing to download", set.Entry.Satellite)
		return nil
	}
	provider := set.Entry.Download
	log.Logger(ctx).Sugar().Infof("downloading %d %s results with %s", len(set.Results), set.Entry.Satellite, provider.Name())
	if err := provider.DownloadMany(ctx, set.Results, downloadDir, opts.Overwrite, opts.Concurrency); err != nil {
		err = fmt.Errorf("download of %s with %s: %w", set.Entry.Satellite, provider.Name(), err)
		log.Logger(ctx).Sugar().Errorf("%v", err)
		return err
	}
	return nil
}
