package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eceo-epfl/earth-extractor/catalog"
	"github.com/eceo-epfl/earth-extractor/common"
	"github.com/eceo-epfl/earth-extractor/downloader"
	"github.com/eceo-epfl/earth-extractor/interface/provider"
	"github.com/eceo-epfl/earth-extractor/service"
	"github.com/eceo-epfl/earth-extractor/service/log"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatal("earth-extractor", zap.Error(err))
	}
}

type batchOptions struct {
	start          string
	end            string
	satellites     []string
	roi            string
	buffer         float64
	cloudCover     float64
	outputDir      string
	export         string
	resultsOnly    bool
	noConfirmation bool
	parallel       bool
	overwrite      bool
	frequency      string
}

func (o *batchOptions) addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.start, "start", "", "start of the time range (any common date format)")
	cmd.Flags().StringVar(&o.end, "end", "", "end of the time range")
	cmd.Flags().StringArrayVar(&o.satellites, "satellite", nil, "satellite and processing level, as SATELLITE:LEVEL (repeatable)")
	cmd.Flags().StringVar(&o.roi, "roi", "", "region of interest: 'lonmin,latmin,lonmax,latmax', 'lon,lat' or a GeoJSON file")
	cmd.Flags().Float64Var(&o.buffer, "buffer", 0, "buffer distance around the region, in meters")
	cmd.Flags().Float64Var(&o.cloudCover, "cloud-cover", 100, "maximum cloud cover percentage")
	cmd.Flags().StringVar(&o.export, "export", string(catalog.ExportDisabled), "export the results: DISABLED, FILE or PIPE")
	cmd.Flags().BoolVar(&o.resultsOnly, "results-only", false, "export the results without downloading")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	cmd.MarkFlagRequired("satellite")
	cmd.MarkFlagRequired("roi")
}

func (o *batchOptions) addDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.outputDir, "output-dir", ".", "directory for downloads and exports")
	cmd.Flags().BoolVar(&o.noConfirmation, "no-confirmation", false, "start downloading without asking")
	cmd.Flags().BoolVar(&o.parallel, "parallel", true, "download the satellites in parallel")
	cmd.Flags().BoolVar(&o.overwrite, "overwrite", false, "re-download files that already exist")
}

func newRootCommand() *cobra.Command {
	debug := false
	root := &cobra.Command{
		Use:           "earth-extractor",
		Short:         "Discover and download Earth observation imagery",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				log.SetLevel(zapcore.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newBatchCommand(), newBatchIntervalCommand(), newImportCommand(), newCredentialsCommand())
	return root
}

func newBatchCommand() *cobra.Command {
	opts := batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Query providers for a time range and region, then download",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, &opts)
		},
	}
	opts.addQueryFlags(cmd)
	opts.addDownloadFlags(cmd)
	return cmd
}

func newBatchIntervalCommand() *cobra.Command {
	opts := batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch-interval",
		Short: "As batch, keeping only the best result per calendar period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, &opts)
		},
	}
	opts.addQueryFlags(cmd)
	opts.addDownloadFlags(cmd)
	cmd.Flags().StringVar(&opts.frequency, "frequency", "", "calendar period: DAILY, WEEKLY, MONTHLY or YEARLY")
	cmd.MarkFlagRequired("frequency")
	return cmd
}

func runBatch(cmd *cobra.Command, opts *batchOptions) error {
	ctx := cmd.Context()
	c, err := newCatalog()
	if err != nil {
		return err
	}

	start, err := dateparse.ParseAny(opts.start)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := dateparse.ParseAny(opts.end)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}
	exportMode, err := catalog.ExportModeString(opts.export)
	if err != nil {
		return err
	}

	queryOpts := catalog.Options{
		Start:        start,
		End:          end,
		Selectors:    opts.satellites,
		ROI:          opts.roi,
		BufferMeters: opts.buffer,
		OutputDir:    opts.outputDir,
		Export:       exportMode,
		ResultsOnly:  opts.resultsOnly,
	}
	if cmd.Flags().Changed("cloud-cover") {
		queryOpts.CloudCover = &opts.cloudCover
	}
	if opts.frequency != "" {
		frequency, err := common.TemporalFrequencyString(opts.frequency)
		if err != nil {
			return fmt.Errorf("invalid --frequency: %w", err)
		}
		queryOpts.Frequency = &frequency
	}

	report, err := c.BatchQuery(ctx, queryOpts)
	if err != nil {
		return err
	}
	if report.DisplayOnly {
		return nil
	}
	return download(ctx, report.Results, opts)
}

func newImportCommand() *cobra.Command {
	opts := batchOptions{}
	filename := ""
	cmd := &cobra.Command{
		Use:   "import-geojson",
		Short: "Download the results of a previously exported GeoJSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := newCatalog()
			if err != nil {
				return err
			}
			sets, err := c.ImportResults(ctx, filename)
			if err != nil {
				return err
			}
			return download(ctx, sets, &opts)
		},
	}
	cmd.Flags().StringVar(&filename, "filename", "", "GeoJSON file exported by a previous run")
	cmd.MarkFlagRequired("filename")
	opts.addDownloadFlags(cmd)
	return cmd
}

func download(ctx context.Context, sets []catalog.SatelliteResults, opts *batchOptions) error {
	total := 0
	for _, set := range sets {
		total += len(set.Results)
	}
	if total == 0 {
		log.Logger(ctx).Sugar().Info("nothing to download")
		return nil
	}
	if !opts.noConfirmation && !confirm(fmt.Sprintf("Download %d products to %s?", total, opts.outputDir)) {
		log.Logger(ctx).Sugar().Info("download cancelled")
		return nil
	}
	return downloader.Download(ctx, sets, opts.outputDir, downloader.Options{
		Parallel:  opts.parallel,
		Overwrite: opts.overwrite,
	})
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// newCatalog wires the registry with the concrete providers.
func newCatalog() (*catalog.Catalog, error) {
	credentials, err := service.LoadCredentials()
	if err != nil {
		return nil, err
	}
	copernicus := provider.NewCopernicus(credentials.ScihubUsername, credentials.ScihubPassword)
	registry := catalog.NewRegistry(catalog.Providers{
		Copernicus: copernicus,
		ASF:        provider.NewASF(credentials.ASFToken),
		NASA:       provider.NewNASA(credentials.NASAToken),
		Sinergise:  provider.NewSinergise(credentials.SinergiseKey, credentials.SinergiseSecret),
		SwissTopo:  provider.NewSwissTopo(),
	})
	return &catalog.Catalog{Registry: registry}, nil
}

func newCredentialsCommand() *cobra.Command {
	var set, del string
	showSecrets := false
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage provider credentials in the OS keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case set != "":
				key, value, ok := strings.Cut(set, "=")
				if !ok {
					return fmt.Errorf("--set expects KEY=VALUE")
				}
				if err := service.StoreCredential(key, value); err != nil {
					return err
				}
				fmt.Printf("%s stored\n", key)
			case del != "":
				if err := service.DeleteCredential(del); err != nil {
					return err
				}
				fmt.Printf("%s deleted\n", del)
			default:
				credentials, err := service.LoadCredentials()
				if err != nil {
					return err
				}
				for _, key := range service.CredentialKeys() {
					value, _ := credentials.Get(key)
					switch {
					case value == "":
						value = "(unset)"
					case !showSecrets:
						value = "********"
					}
					fmt.Printf("%-28s %s\n", key, value)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&set, "set", "", "store a credential, as KEY=VALUE")
	cmd.Flags().StringVar(&del, "delete", "", "delete a credential by key")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print credential values in clear")
	return cmd
}
