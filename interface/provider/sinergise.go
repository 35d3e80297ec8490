package provider

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/eceo-epfl/earth-extractor/common"
)

const (
	sinergiseBucketL1C = "sentinel-s2-l1c"
	sinergiseBucketL2A = "sentinel-s2-l2a"
	sinergiseRegion    = "eu-central-1"
	// tiles/{utm_zone}/{latitude_band}/{grid_square}/{year}/{month}/{day}/{sequence}/
	sinergisePrefixTemplate = "tiles/{UTM_ZONE}/{LATITUDE_BAND}/{GRID_SQUARE}/{YEAR}/{MONTH_SHORT}/{DAY_SHORT}/0/"
)

// Sinergise downloads Sentinel-2 tiles from the requester-pays buckets
// maintained by Sinergise on AWS.
type Sinergise struct {
	accessKeyID     string
	secretAccessKey string
}

// NewSinergise creates a provider for the Sinergise Sentinel-2 buckets
func NewSinergise(accessKeyID, secretAccessKey string) *Sinergise {
	return &Sinergise{accessKeyID: accessKeyID, secretAccessKey: secretAccessKey}
}

// Name implements DownloadProvider
func (p *Sinergise) Name() string {
	return "Sinergise"
}

// DownloadMany implements DownloadProvider
func (p *Sinergise) DownloadMany(ctx context.Context, results []common.SearchResult, downloadDir string, overwrite bool, concurrency int) error {
	if err := mkdirAll(downloadDir); err != nil {
		return fmt.Errorf("Sinergise.%w", err)
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(p.accessKeyID, p.secretAccessKey, "")),
		config.WithRegion(sinergiseRegion),
	)
	if err != nil {
		return fmt.Errorf("Sinergise config.LoadDefaultConfig: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	downloader := manager.NewDownloader(client, func(d *manager.Downloader) {
		d.PartSize = 10 * 1024 * 1024 // 10MB per part
	})

	return forEachResult(ctx, p.Name(), results, concurrency, func(ctx context.Context, r common.SearchResult) error {
		if err := p.downloadProduct(ctx, client, downloader, r, downloadDir, overwrite); err != nil {
			return fmt.Errorf("Sinergise.%w", err)
		}
		return nil
	})
}

func (p *Sinergise) downloadProduct(ctx context.Context, client *s3.Client, downloader *manager.Downloader, r common.SearchResult, downloadDir string, overwrite bool) error {
	if sat, _ := common.GetSatelliteFromProductID(r.Identifier); sat != common.Sentinel2 {
		return fmt.Errorf("downloadProduct: satellite not supported")
	}
	info, err := common.Info(r.Identifier)
	if err != nil {
		return fmt.Errorf("downloadProduct.%w", err)
	}
	// the bucket layout drops leading zeroes from month and day
	info["MONTH_SHORT"] = strings.TrimLeft(info["MONTH"], "0")
	info["DAY_SHORT"] = strings.TrimLeft(info["DAY"], "0")

	bucket := sinergiseBucketL1C
	if info["PRODUCT_LEVEL"] == "L2A" {
		bucket = sinergiseBucketL2A
	}
	prefix := common.FormatBrackets(sinergisePrefixTemplate, info)

	productDir := path.Join(downloadDir, r.Identifier)
	if err := os.MkdirAll(productDir, 0755); err != nil {
		return fmt.Errorf("downloadProduct os.MkdirAll: %w", err)
	}

	paginator := s3.NewListObjectsV2Paginator(client,
		&s3.ListObjectsV2Input{
			Bucket:       aws.String(bucket),
			Prefix:       aws.String(prefix),
			RequestPayer: "requester",
		},
		func(o *s3.ListObjectsV2PaginatorOptions) {
			o.Limit = 200
		},
	)

	found := false
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("downloadProduct paginator.NextPage: %w", err)
		}
		for _, object := range page.Contents {
			found = true
			objectKey := aws.ToString(object.Key)
			localFilePath := path.Join(productDir, strings.ReplaceAll(strings.TrimPrefix(objectKey, prefix), "/", "_"))
			if !overwrite {
				if stat, err := os.Stat(localFilePath); err == nil && object.Size != nil && stat.Size() == *object.Size {
					continue
				}
			}
			if err := downloadObjectToFile(ctx, downloader, bucket, objectKey, localFilePath); err != nil {
				return fmt.Errorf("downloadProduct.%w", err)
			}
		}
	}
	if !found {
		return ErrProductNotFound{Product: r.Identifier}
	}
	return nil
}

func downloadObjectToFile(ctx context.Context, downloader *manager.Downloader, bucketName, objectKey, localPath string) error {
	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("downloadObjectToFile: failed to create file %s: %w", localPath, err)
	}
	defer file.Close()

	if _, err = downloader.Download(ctx, file, &s3.GetObjectInput{
		Bucket:       aws.String(bucketName),
		Key:          aws.String(objectKey),
		RequestPayer: "requester",
	}); err != nil {
		return fmt.Errorf("downloadObjectToFile: failed to download object %s:%s: %w", bucketName, objectKey, err)
	}
	return nil
}
