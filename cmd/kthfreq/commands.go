package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-sif/kthfreq"
	"github.com/go-sif/kthfreq/accumulators"
	"github.com/go-sif/kthfreq/cluster"
	"github.com/go-sif/kthfreq/datasource"
	"github.com/go-sif/kthfreq/datasource/generate"
	"github.com/go-sif/kthfreq/datasource/parser/dsv"
	"github.com/go-sif/kthfreq/datasource/parser/jsonl"
	"github.com/go-sif/kthfreq/logging"
	"github.com/go-sif/kthfreq/metrics"
	"github.com/go-sif/kthfreq/rank"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	logLevel   string
	noColor    bool
}

// runFlags configure the run subcommand
type runFlags struct {
	k            int
	input        string
	format       string
	path         string
	column       int
	delimiter    string
	headerLines  int
	generate     int
	distribution string
	seed         int64
	maxValue     int
	hotValues    int
	hotFraction  float64
	partitions   int
	concurrency  int
	memory       int64
	timeout      time.Duration
	selection    string
	snapshot     string
	compression  string
	metricsAddr  string
}

func newRootCmd(stdout io.Writer, stderr io.Writer) *cobra.Command {
	gf := &globalFlags{}
	root := &cobra.Command{
		Use:          "kthfreq",
		Short:        "Find the K-th most frequent value in a sequence of integers",
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&gf.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "log level (TRACE, DEBUG, INFO, WARN, ERROR, FATAL)")
	root.PersistentFlags().BoolVar(&gf.noColor, "no-color", false, "disable colored log output")
	root.AddCommand(newRunCmd(gf), newDemoCmd(gf), newInspectCmd())
	return root
}

// loadGlobalConfig reads the config file and applies the global flag overrides
func loadGlobalConfig(cmd *cobra.Command, gf *globalFlags) (*Config, *slog.Logger, error) {
	conf, err := loadConfig(gf.configPath)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("log-level") {
		conf.LogLevel = gf.logLevel
	}
	if cmd.Flags().Changed("no-color") {
		conf.NoColor = gf.noColor
	}
	level, err := logging.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return conf, logging.NewLogger(cmd.ErrOrStderr(), level, conf.NoColor), nil
}

func newRunCmd(gf *globalFlags) *cobra.Command {
	rf := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute the K-th most frequent value of a file or generated sample",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := loadGlobalConfig(cmd, gf)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, rf, conf)
			return run(cmd.Context(), cmd.OutOrStdout(), logger, conf, rf)
		},
	}
	f := cmd.Flags()
	f.IntVar(&rf.k, "k", 1, "rank of the value to find, starting at 1")
	f.StringVarP(&rf.input, "input", "i", "", "file to read values from")
	f.StringVar(&rf.format, "format", "dsv", "input format: dsv or jsonl")
	f.StringVar(&rf.path, "path", "", "gjson path selecting values from each JSONL line")
	f.IntVar(&rf.column, "column", 0, "zero-based DSV column holding values, or -1 for all columns")
	f.StringVar(&rf.delimiter, "delimiter", ",", "DSV delimiter")
	f.IntVar(&rf.headerLines, "header-lines", 0, "number of leading lines to ignore")
	f.IntVar(&rf.generate, "generate", 0, "generate this many values instead of reading a file")
	f.StringVar(&rf.distribution, "distribution", "uniform", "distribution of generated values: uniform, skewed or sequential")
	f.Int64Var(&rf.seed, "seed", 42, "seed for generated values")
	f.IntVar(&rf.maxValue, "max", 100, "generated values lie in [0, max)")
	f.IntVar(&rf.hotValues, "hot-values", 3, "skewed distribution: number of dominant values")
	f.Float64Var(&rf.hotFraction, "hot-fraction", 0.7, "skewed distribution: fraction of values drawn from the dominant values")
	f.IntVarP(&rf.partitions, "partitions", "n", 0, "number of partitions")
	f.IntVar(&rf.concurrency, "concurrency", 0, "maximum partitions counted at once")
	f.Int64Var(&rf.memory, "memory-threshold", 0, "per-partition memory hint in bytes (has no effect on results)")
	f.DurationVar(&rf.timeout, "timeout", 0, "deadline for the computation")
	f.StringVar(&rf.selection, "selection", "", "selection algorithm: sort or heap")
	f.StringVar(&rf.snapshot, "snapshot", "", "write the merged frequency table to this file")
	f.StringVar(&rf.compression, "compression", "", "snapshot compression: none, lz4 or zstd")
	f.StringVar(&rf.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	return cmd
}

// applyRunFlags overrides configuration file values with explicitly set flags
func applyRunFlags(cmd *cobra.Command, rf *runFlags, conf *Config) {
	f := cmd.Flags()
	if f.Changed("partitions") {
		conf.Partitions = rf.partitions
	}
	if f.Changed("concurrency") {
		conf.MaxConcurrency = rf.concurrency
	}
	if f.Changed("memory-threshold") {
		conf.MemoryThreshold = rf.memory
	}
	if f.Changed("timeout") {
		conf.Timeout = rf.timeout
	}
	if f.Changed("selection") {
		conf.Selection = rf.selection
	}
	if f.Changed("compression") {
		conf.Compression = rf.compression
	}
}

func run(ctx context.Context, out io.Writer, logger *slog.Logger, conf *Config, rf *runFlags) error {
	opts, err := conf.options()
	if err != nil {
		return err
	}
	opts.Logger = logger
	if len(rf.metricsAddr) > 0 {
		reg := prometheus.NewRegistry()
		collector, err := metrics.NewPrometheus(reg, "")
		if err != nil {
			return err
		}
		opts.Metrics = collector
		shutdown, err := serveMetrics(rf.metricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}
	coordinator, err := cluster.CreateCoordinator(opts)
	if err != nil {
		return err
	}
	data, err := loadData(rf)
	if err != nil {
		return err
	}
	res, err := coordinator.Compute(ctx, data, rf.k)
	if err != nil {
		return err
	}
	if res.Found {
		fmt.Fprintf(out, "k=%d value=%d count=%d\n", rf.k, res.Entry.Value, res.Entry.Count)
	} else {
		fmt.Fprintf(out, "k=%d value=%d (no such rank among %d distinct values)\n", rf.k, kthfreq.NoResult, res.Table.Len())
	}
	if len(rf.snapshot) > 0 {
		if err := writeSnapshot(rf.snapshot, res.Table, conf.Compression); err != nil {
			return err
		}
		logger.Info("Wrote snapshot", "path", rf.snapshot, "distinct", res.Table.Len(), "compression", conf.Compression)
	}
	return nil
}

func loadData(rf *runFlags) ([]int, error) {
	switch {
	case len(rf.input) > 0 && rf.generate > 0:
		return nil, fmt.Errorf("--input and --generate are mutually exclusive")
	case rf.generate > 0:
		return generateData(rf)
	case len(rf.input) > 0:
		parser, err := createParser(rf)
		if err != nil {
			return nil, err
		}
		return datasource.LoadFile(rf.input, parser)
	default:
		return nil, fmt.Errorf("one of --input or --generate is required")
	}
}

func generateData(rf *runFlags) ([]int, error) {
	if rf.distribution == "sequential" {
		return generate.Sequential(rf.generate), nil
	}
	if rf.maxValue < 1 {
		return nil, fmt.Errorf("--max must be positive")
	}
	switch rf.distribution {
	case "uniform":
		return generate.Uniform(rf.seed, rf.generate, rf.maxValue), nil
	case "skewed":
		if rf.hotFraction < 0 || rf.hotFraction > 1 {
			return nil, fmt.Errorf("--hot-fraction must lie in [0, 1]")
		}
		return generate.Skewed(rf.seed, rf.generate, rf.maxValue, rf.hotValues, rf.hotFraction), nil
	default:
		return nil, fmt.Errorf("%q is an unknown distribution, must be uniform, skewed or sequential", rf.distribution)
	}
}

func createParser(rf *runFlags) (datasource.Parser, error) {
	switch rf.format {
	case "jsonl":
		return jsonl.CreateParser(&jsonl.ParserConf{Path: rf.path, HeaderLines: rf.headerLines}), nil
	case "dsv", "csv":
		delim := []rune(rf.delimiter)
		if len(delim) != 1 {
			return nil, fmt.Errorf("--delimiter must be a single character")
		}
		return dsv.CreateParser(&dsv.ParserConf{Delimiter: delim[0], Column: rf.column, HeaderLines: rf.headerLines}), nil
	default:
		return nil, fmt.Errorf("%q is an unknown format, must be dsv or jsonl", rf.format)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(lis); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	logger.Info("Serving metrics", "addr", lis.Addr().String())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func writeSnapshot(path string, table kthfreq.FrequencyTable, compression string) error {
	acc, err := accumulators.FromTable(table, compression)
	if err != nil {
		return err
	}
	buf, err := acc.ToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

func newDemoCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the canonical example computations",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := loadGlobalConfig(cmd, gf)
			if err != nil {
				return err
			}
			opts, err := conf.options()
			if err != nil {
				return err
			}
			opts.Logger = logger
			coordinator, err := cluster.CreateCoordinator(opts)
			if err != nil {
				return err
			}
			return demo(cmd.Context(), cmd.OutOrStdout(), coordinator)
		},
	}
}

type demoCase struct {
	name string
	data []int
	k    int
}

func demo(ctx context.Context, out io.Writer, coordinator *cluster.Coordinator) error {
	cases := []demoCase{
		{"generated sample", generate.Uniform(42, 1000, 100), 3},
		{"mixed frequencies", []int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 3},
		{"equal frequencies", []int{1, 1, 2, 2, 3, 3, 4}, 3},
		{"single element dominance", []int{5, 5, 5, 1, 2, 3, 4}, 2},
	}
	for _, c := range cases {
		res, err := coordinator.FindKthFrequent(ctx, c.data, c.k)
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		fmt.Fprintf(out, "%s (k=%d): %d\n", c.name, c.k, res)
	}
	return nil
}

func newInspectCmd() *cobra.Command {
	var top int
	var snapshots []string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the ranking held in one or more frequency table snapshots, merged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := make([]kthfreq.FrequencyTable, 0, len(snapshots))
			for _, snapshot := range snapshots {
				table, err := readSnapshot(snapshot)
				if err != nil {
					return err
				}
				tables = append(tables, table)
			}
			table := kthfreq.MergeTables(tables...)
			ranking := rank.Rank(table)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d values, %d distinct\n", table.Total(), table.Len())
			for i, e := range ranking {
				if top > 0 && i >= top {
					break
				}
				fmt.Fprintf(out, "%d\t%d\t%d\n", i+1, e.Value, e.Count)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&snapshots, "snapshot", nil, "snapshot file written by run --snapshot. Repeat to merge several snapshots.")
	cmd.Flags().IntVar(&top, "top", 10, "number of ranks to print, or 0 for all")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func readSnapshot(path string) (kthfreq.FrequencyTable, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	acc, err := accumulators.Counter(0).FromBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode snapshot %s: %w", path, err)
	}
	return acc.Table(), nil
}
