package main

//
// The probe subcommand
//

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"
	"github.com/iotnet/minihttp/internal/rawhttp"
	"github.com/montanaflynn/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// errNoSuccessfulRequests indicates that every request failed.
var errNoSuccessfulRequests = errors.New("no successful requests")

// probeOptions contains the probe specific options.
type probeOptions struct {
	Count      int
	Parallel   int
	Prometheus string
}

func newProbeCommand(globalOptions *Options, stdout, stderr io.Writer) *cobra.Command {
	var (
		target  targetOptions
		options probeOptions
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Sends many independent requests and prints latency statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return probeMain(cmd.Context(), globalOptions, &target, &options, stdout, stderr)
		},
	}
	target.addFlags(cmd.Flags())
	flags := cmd.Flags()
	flags.IntVarP(&options.Count, "count", "c", 10, "number of requests to send")
	flags.IntVarP(&options.Parallel, "parallel", "P", 1, "maximum number of concurrent requests")
	flags.StringVar(&options.Prometheus, "prometheus", "", "serve prometheus metrics at the given endpoint while probing")
	return cmd
}

// probeResult is the outcome of a single request.
type probeResult struct {
	latency time.Duration

	// failure is empty on success
	failure string
}

func probeMain(ctx context.Context, globalOptions *Options, target *targetOptions,
	options *probeOptions, stdout, stderr io.Writer) error {
	if options.Count <= 0 || options.Parallel <= 0 {
		return errors.New("--count and --parallel must be positive")
	}
	cfg, err := loadConfig(globalOptions)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	clientConfig := cfg.ClientConfig(log.Log)
	clientConfig.Metrics = rawhttp.NewMetrics(reg)
	client := rawhttp.NewClient(clientConfig)

	if options.Prometheus != "" {
		srv, err := startPrometheus(options.Prometheus, reg)
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	bar := progressbar.NewOptions64(
		int64(options.Count),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(stderr, "\n")
		}),
		progressbar.OptionSetWriter(stderr),
	)

	results := make([]*probeResult, options.Count)
	var barMu sync.Mutex
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(options.Parallel)
	for idx := 0; idx < options.Count; idx++ {
		group.Go(func() error {
			// each request owns its own Request and Response
			req, err := target.newRequest()
			if err != nil {
				return err
			}
			start := time.Now()
			resp, err := client.Do(gctx, req)
			results[idx] = &probeResult{latency: time.Since(start)}
			if err != nil {
				log.WithFields(failureFields(err)).Debug("request failed")
				results[idx].failure = err.Error()
			}
			resp.Release()
			barMu.Lock()
			bar.Add(1)
			barMu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return printProbeSummary(stdout, results)
}

// startPrometheus serves the metrics in reg at endpoint.
func startPrometheus(endpoint string, reg *prometheus.Registry) (*http.Server, error) {
	listener, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, err
	}
	promMux := http.NewServeMux()
	promMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	promSrv := &http.Server{Handler: promMux, ReadHeaderTimeout: 10 * time.Second}
	go promSrv.Serve(listener)
	log.Infof("serving prometheus metrics at http://%s/metrics", listener.Addr().String())
	return promSrv, nil
}

// latencySummary contains latency statistics in milliseconds.
type latencySummary struct {
	Min    float64
	Mean   float64
	Median float64
	P90    float64
	Max    float64
}

// summarizeLatencies computes the statistics of the given latencies.
func summarizeLatencies(latencies stats.Float64Data) (*latencySummary, error) {
	var (
		s   latencySummary
		err error
	)
	if s.Min, err = stats.Min(latencies); err != nil {
		return nil, err
	}
	if s.Mean, err = stats.Mean(latencies); err != nil {
		return nil, err
	}
	if s.Median, err = stats.Median(latencies); err != nil {
		return nil, err
	}
	if s.P90, err = stats.PercentileNearestRank(latencies, 90); err != nil {
		return nil, err
	}
	if s.Max, err = stats.Max(latencies); err != nil {
		return nil, err
	}
	return &s, nil
}

// printProbeSummary writes the failures and the latency statistics
// of the successful requests to w.
func printProbeSummary(w io.Writer, results []*probeResult) error {
	var latencies stats.Float64Data
	failures := make(map[string]int)
	for _, r := range results {
		if r.failure != "" {
			failures[r.failure]++
			continue
		}
		latencies = append(latencies, float64(r.latency)/float64(time.Millisecond))
	}
	fmt.Fprintf(w, "requests: %d ok: %s failed: %s\n", len(results),
		color.GreenString("%d", len(latencies)), color.RedString("%d", len(results)-len(latencies)))
	for _, failure := range slices.Sorted(maps.Keys(failures)) {
		fmt.Fprintf(w, "  %s: %d\n", failure, failures[failure])
	}
	if len(latencies) <= 0 {
		return errNoSuccessfulRequests
	}
	summary, err := summarizeLatencies(latencies)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "latency (ms): min=%.3f mean=%.3f median=%.3f p90=%.3f max=%.3f\n",
		summary.Min, summary.Mean, summary.Median, summary.P90, summary.Max)
	return nil
}
