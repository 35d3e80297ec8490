package provider

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cavaliercoder/grab"
	"github.com/mholt/archiver"
	"golang.org/x/sync/errgroup"

	"github.com/eceo-epfl/earth-extractor/common"
	"github.com/eceo-epfl/earth-extractor/service"
	"github.com/eceo-epfl/earth-extractor/service/log"
)

func fmtBytes(bytes int64) string {
	v := float64(bytes)
	switch {
	case v > 1<<30:
		return fmt.Sprintf("%.2fGo", v/(1<<30))
	case v > 1<<20:
		return fmt.Sprintf("%.2fMo", v/(1<<20))
	case v > 1<<10:
		return fmt.Sprintf("%.2fko", v/(1<<10))
	default:
		return fmt.Sprintf("%.2fo", v)
	}
}

func displayProgress(ctx context.Context, prefix string, resp *grab.Response, progressPeriod float64) {
	t := time.NewTicker(time.Second)
	defer t.Stop()

	progress, lastBytes, seconds := 0.0, int64(0), int64(0)
	for {
		select {
		case <-t.C:
			seconds++
			if resp.Progress() > progress {
				log.Logger(ctx).Sugar().Debugf("%s: %.2f%% %s/%s (%s/s)", prefix, 100*resp.Progress(), fmtBytes(resp.BytesComplete()), fmtBytes(resp.Size), fmtBytes((resp.BytesComplete()-lastBytes)/seconds))
				seconds = 0
				progress += progressPeriod
				lastBytes = resp.BytesComplete()
			}

		case <-resp.Done:
			return
		}
	}
}

type downloadOptions struct {
	header             http.Header
	copyAuthOnRedirect bool
	overwrite          bool
	unzip              bool
}

// downloadAsset downloads url to localPath with display every 5%.
// If the file already exists with the size announced by the server, the
// download is skipped unless overwrite is requested.
func downloadAsset(ctx context.Context, url, localPath, display string, opts downloadOptions) error {
	req, err := grab.NewRequest(localPath, url)
	if err != nil {
		return fmt.Errorf("downloadAsset.NewRequest: %w", err)
	}
	req = req.WithContext(ctx)
	for key, values := range opts.header {
		for _, value := range values {
			req.HTTPRequest.Header.Add(key, value)
		}
	}
	if opts.overwrite {
		os.Remove(localPath)
	} else if skip, err := sizeMatches(localPath, url, opts.header); err == nil && skip {
		log.Logger(ctx).Sugar().Debugf("%s: already downloaded, skipping", display)
		return nil
	}

	client := grab.NewClient()
	if opts.copyAuthOnRedirect {
		client.HTTPClient.CheckRedirect = checkRedirectAndCopyAuth
	}
	resp := client.Do(req)

	displayProgress(ctx, display, resp, 0.05)

	if err := resp.Err(); err != nil {
		err = fmt.Errorf("downloadAsset[%s]: %w", req.URL(), err)
		if resp.HTTPResponse == nil {
			return service.MakeTemporary(err)
		}
		switch resp.HTTPResponse.StatusCode {
		case 408, 429, 500, 501, 502, 503, 504:
			return service.MakeTemporary(err)
		default:
			return err
		}
	}

	if err := checkNotHTML(localPath, display); err != nil {
		return err
	}

	if opts.unzip {
		defer os.Remove(localPath)
		if err := unarchive(localPath, filepath.Dir(localPath)); err != nil {
			return fmt.Errorf("downloadAsset.Unarchive: %w", err)
		}
	}
	return nil
}

// sizeMatches returns whether localPath exists with the Content-Length
// announced by a HEAD request on url.
func sizeMatches(localPath, url string, header http.Header) (bool, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return false, err
	}
	req, err := http.NewRequest("HEAD", url, nil)
	if err != nil {
		return false, err
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.ContentLength > 0 && resp.ContentLength == info.Size(), nil
}

// checkNotHTML rejects downloads that are a login or error page instead of
// the product. Such payloads mean the credentials are wrong and retrying
// cannot help.
func checkNotHTML(localPath, display string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("checkNotHTML.Open: %w", err)
	}
	defer f.Close()
	head := make([]byte, 512)
	n, _ := f.Read(head)
	if strings.Contains(http.DetectContentType(head[:n]), "text/html") {
		os.Remove(localPath)
		return service.MakeFatal(ErrUnexpectedPayload{Provider: display, Hint: "server answered with an HTML page, check the credentials"})
	}
	return nil
}

func checkRedirectAndCopyAuth(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return fmt.Errorf("stopped after 10 redirects")
	}
	if auth, ok := via[0].Header["Authorization"]; ok {
		req.Header.Add("Authorization", auth[0])
	}
	return nil
}

// unarchive file with basic check. All errors are temporary.
func unarchive(localZip, localDir string) error {
	tmpdir, err := os.MkdirTemp(localDir, filepath.Base(localZip))
	if err != nil {
		return service.MakeTemporary(err)
	}
	defer os.RemoveAll(tmpdir)
	if err := archiver.Unarchive(localZip, tmpdir); err != nil {
		return service.MakeTemporary(err)
	}
	files, err := os.ReadDir(tmpdir)
	if err != nil {
		return service.MakeTemporary(err)
	}
	if len(files) == 0 {
		return service.MakeTemporary(fmt.Errorf("empty zip"))
	}
	for _, f := range files {
		os.Rename(filepath.Join(tmpdir, f.Name()), filepath.Join(localDir, f.Name()))
	}
	return nil
}

// localFileName picks a file name for a result: the explicit filename, the
// last URL segment or the identifier.
func localFileName(r common.SearchResult, ext string) string {
	switch {
	case r.Filename != "":
		return r.Filename
	case r.URL != "":
		return filepath.Base(r.URL)
	default:
		return r.Identifier + ext
	}
}

// forEachResult runs fn on every result, at most concurrency at a time.
// A failing result is logged and does not prevent the others: the errors are
// merged and reported once all downloads have finished.
func forEachResult(ctx context.Context, provider string, results []common.SearchResult, concurrency int, fn func(ctx context.Context, r common.SearchResult) error) error {
	if concurrency < 1 {
		concurrency = 1
	}
	wg, ctx := errgroup.WithContext(ctx)
	wg.SetLimit(concurrency)

	errs := make([]error, len(results))
	for i, r := range results {
		i, r := i, r
		wg.Go(func() error {
			if err := service.Retriable(ctx, func() error { return fn(ctx, r) }, 30*time.Second, 3); err != nil {
				log.Logger(ctx).Sugar().Errorf("%s: download of %s failed: %v", provider, r.Identifier, err)
				errs[i] = err
			}
			return nil
		})
	}
	wg.Wait()
	return service.MergeErrors(true, nil, errs...)
}

// mkdirAll creates the download directory, idempotently.
func mkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("mkdirAll: %w", err)
	}
	return nil
}
