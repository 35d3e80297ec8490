package downloader_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/eceo-epfl/earth-extractor/catalog"
	"github.com/eceo-epfl/earth-extractor/common"
	"github.com/eceo-epfl/earth-extractor/downloader"
)

type recordingProvider struct {
	mu    sync.Mutex
	calls []downloadCall
	err   error
}

type downloadCall struct {
	satellite   common.Satellite
	count       int
	dir         string
	overwrite   bool
	concurrency int
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) DownloadMany(ctx context.Context, results []common.SearchResult, downloadDir string, overwrite bool, concurrency int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	satellite := common.Satellite("")
	if len(results) > 0 {
		satellite = results[0].Satellite
	}
	p.calls = append(p.calls, downloadCall{satellite, len(results), downloadDir, overwrite, concurrency})
	return p.err
}

func (p *recordingProvider) satellites() []common.Satellite {
	p.mu.Lock()
	defer p.mu.Unlock()
	var sats []common.Satellite
	for _, call := range p.calls {
		sats = append(sats, call.satellite)
	}
	return sats
}

func resultSet(p *recordingProvider, sat common.Satellite, count int) catalog.SatelliteResults {
	at := time.Date(2023, 6, 3, 10, 0, 0, 0, time.UTC)
	results := make([]common.SearchResult, count)
	for i := range results {
		results[i] = common.SearchResult{
			Satellite:  sat,
			Identifier: fmt.Sprintf("%s-%d", sat, i),
			Time:       &at,
		}
	}
	return catalog.SatelliteResults{
		Entry:   &catalog.Entry{Satellite: sat, Download: p},
		Level:   common.L1,
		Results: results,
	}
}

var _ = Describe("Download", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with empty result sets", func() {
		It("skips them without calling the provider", func() {
			p := &recordingProvider{}
			sets := []catalog.SatelliteResults{
				resultSet(p, common.Sentinel2, 0),
				resultSet(p, common.Sentinel3, 2),
			}
			Expect(downloader.Download(ctx, sets, "/tmp/out", downloader.Options{})).To(Succeed())
			Expect(p.satellites()).To(ConsistOf(common.Sentinel3))
		})
	})

	Context("when one satellite fails", func() {
		It("still downloads the others and reports the failure", func() {
			broken := &recordingProvider{err: fmt.Errorf("datapool unreachable")}
			healthy := &recordingProvider{}
			sets := []catalog.SatelliteResults{
				resultSet(broken, common.Sentinel1, 1),
				resultSet(healthy, common.Sentinel2, 3),
			}
			err := downloader.Download(ctx, sets, "/tmp/out", downloader.Options{})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("SENTINEL1"))
			Expect(healthy.satellites()).To(ConsistOf(common.Sentinel2))
		})

		It("behaves the same sequentially", func() {
			broken := &recordingProvider{err: fmt.Errorf("datapool unreachable")}
			healthy := &recordingProvider{}
			sets := []catalog.SatelliteResults{
				resultSet(broken, common.Sentinel1, 1),
				resultSet(healthy, common.Sentinel2, 3),
			}
			err := downloader.Download(ctx, sets, "/tmp/out", downloader.Options{Parallel: false})
			Expect(err).To(HaveOccurred())
			Expect(healthy.satellites()).To(ConsistOf(common.Sentinel2))
		})
	})

	Context("options", func() {
		It("threads overwrite and concurrency through to the provider", func() {
			p := &recordingProvider{}
			sets := []catalog.SatelliteResults{resultSet(p, common.Sentinel2, 1)}
			opts := downloader.Options{Overwrite: true, Concurrency: 7}
			Expect(downloader.Download(ctx, sets, "/data", opts)).To(Succeed())
			Expect(p.calls).To(HaveLen(1))
			Expect(p.calls[0].dir).To(Equal("/data"))
			Expect(p.calls[0].overwrite).To(BeTrue())
			Expect(p.calls[0].concurrency).To(Equal(7))
		})

		It("applies the default concurrency when unset", func() {
			p := &recordingProvider{}
			sets := []catalog.SatelliteResults{resultSet(p, common.Sentinel2, 1)}
			Expect(downloader.Download(ctx, sets, "/data", downloader.Options{})).To(Succeed())
			Expect(p.calls[0].concurrency).To(Equal(downloader.DefaultConcurrency))
		})
	})

	Context("parallel mode", func() {
		It("downloads every satellite exactly once", func() {
			p := &recordingProvider{}
			sets := []catalog.SatelliteResults{
				resultSet(p, common.Sentinel1, 1),
				resultSet(p, common.Sentinel2, 1),
				resultSet(p, common.Sentinel3, 1),
				resultSet(p, common.VIIRS, 1),
				resultSet(p, common.SwissImage, 1),
			}
			Expect(downloader.Download(ctx, sets, "/tmp/out", downloader.Options{Parallel: true})).To(Succeed())
			Expect(p.satellites()).To(ConsistOf(
				common.Sentinel1, common.Sentinel2, common.Sentinel3, common.VIIRS, common.SwissImage,
			))
		})
	})
})
