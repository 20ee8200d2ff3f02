// Package cmd — hash command.
// Orchestrates the pipeline for one or more URLs: fetch → decode → classify
// → canonicalize → hash, with URLs processed concurrently under a bound.
package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/sitehash/core"
	"github.com/gaurav-prasanna/sitehash/core/config"
	"github.com/gaurav-prasanna/sitehash/core/fetch"
	"github.com/gaurav-prasanna/sitehash/core/pipeline"
	"github.com/gaurav-prasanna/sitehash/core/render"
)

// Flag variables.
var (
	flagAlgorithm      string
	flagJSON           bool
	flagShowContent    bool
	flagShowRedirect   bool
	flagTimeout        string
	flagRenderEndpoint string
	flagRenderTimeout  string
	flagRenderSessions int
	flagConcurrency    int
	flagConfig         string
	flagVerbose        bool
)

var hashCmd = &cobra.Command{
	Use:   "hash <url>...",
	Short: "Hash the canonical content of one or more URLs",
	Long: `Hash fetches each URL, reduces the content to its canonical form, and
prints the digest. URLs without a scheme default to https.

Examples:
  sitehash hash https://example.com
  sitehash hash example.com --algorithm sha512 --show-content
  sitehash hash https://a.example https://b.example --json
  sitehash hash https://example.com --render-endpoint http://localhost:9222/render`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHash,
}

func init() {
	rootCmd.AddCommand(hashCmd)

	hashCmd.Flags().StringVarP(&flagAlgorithm, "algorithm", "a", "", "Hash algorithm (default sha256)")
	hashCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Output results as JSON")
	hashCmd.Flags().BoolVarP(&flagShowContent, "show-content", "c", false, "Output the canonical content after processing")
	hashCmd.Flags().BoolVarP(&flagShowRedirect, "show-redirect", "r", false, "Output whether the URL was redirected")
	hashCmd.Flags().StringVar(&flagTimeout, "timeout", "", "HTTP fetch timeout (e.g. 30s)")
	hashCmd.Flags().StringVar(&flagRenderEndpoint, "render-endpoint", "", "Headless-browser render service URL (default: no script execution)")
	hashCmd.Flags().StringVar(&flagRenderTimeout, "render-timeout", "", "Per-render timeout (e.g. 30s)")
	hashCmd.Flags().IntVar(&flagRenderSessions, "render-sessions", 0, "Maximum concurrent rendering sessions")
	hashCmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "Maximum URLs processed at once")
	hashCmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	hashCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

func runHash(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger()

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	urls := make([]string, len(args))
	for i, arg := range args {
		urls[i] = normalizeURL(arg)
	}

	results := make([]*core.Result, len(urls))
	errs := make([]error, len(urls))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Concurrency)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			results[i], errs[i] = p.HashURL(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return report(urls, results, errs)
}

// applyFlags lets explicit flags override config file values.
func applyFlags(cfg *config.Config) {
	if flagAlgorithm != "" {
		cfg.Algorithm = flagAlgorithm
	}
	if flagTimeout != "" {
		cfg.Timeout = flagTimeout
	}
	if flagRenderEndpoint != "" {
		cfg.RenderEndpoint = flagRenderEndpoint
	}
	if flagRenderTimeout != "" {
		cfg.RenderTimeout = flagRenderTimeout
	}
	if flagRenderSessions > 0 {
		cfg.RenderSessions = flagRenderSessions
	}
	if flagConcurrency > 0 {
		cfg.Concurrency = flagConcurrency
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func buildPipeline(cfg *config.Config, logger zerolog.Logger) (*pipeline.Pipeline, error) {
	fetchTimeout, err := cfg.FetchTimeout()
	if err != nil {
		return nil, err
	}
	renderTimeout, err := cfg.RenderTimeoutDuration()
	if err != nil {
		return nil, err
	}

	var renderer render.Renderer = render.NewStatic()
	if cfg.RenderEndpoint != "" {
		renderer = render.NewRemote(cfg.RenderEndpoint)
	}
	pooled := render.NewPool(renderer, int64(cfg.RenderSessions), renderTimeout)

	return pipeline.New(
		pipeline.WithFetcher(fetch.New(fetch.WithTimeout(fetchTimeout))),
		pipeline.WithRenderer(pooled),
		pipeline.WithAlgorithm(cfg.Algorithm),
		pipeline.WithLogger(logger),
	)
}

// normalizeURL defaults scheme-less URLs to https.
func normalizeURL(raw string) string {
	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" && parsed.Host != "" {
		return raw
	}
	return "https://" + strings.TrimPrefix(raw, "//")
}

// report prints results in text or JSON form. A per-URL failure is reported
// and counted but does not stop the remaining output.
func report(urls []string, results []*core.Result, errs []error) error {
	var failed int

	if flagJSON {
		ok := make([]*core.Result, 0, len(results))
		for i, res := range results {
			if errs[i] != nil {
				fmt.Fprintf(os.Stderr, "error: %s: %v\n", urls[i], errs[i])
				failed++
				continue
			}
			ok = append(ok, res)
		}
		data, err := json.Marshal(ok)
		if err != nil {
			return fmt.Errorf("marshaling results: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
	} else {
		for i, res := range results {
			if errs[i] != nil {
				fmt.Fprintf(os.Stderr, "error: %s: %v\n", urls[i], errs[i])
				failed++
				continue
			}
			printResult(urls[i], res)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d/%d URLs failed", failed, len(urls))
	}
	return nil
}

func printResult(requested string, res *core.Result) {
	fmt.Fprintf(os.Stdout, "Results for %s:\n", requested)
	fmt.Fprintf(os.Stdout, "  Retrieved URL - '%s'\n", res.VisitedURL)
	fmt.Fprintf(os.Stdout, "  Status code - '%d'\n", res.StatusCode)
	fmt.Fprintf(os.Stdout, "  Content type - '%s'\n", res.ContentType)
	if flagShowRedirect {
		fmt.Fprintf(os.Stdout, "  Redirect - %t\n", res.Redirected)
	}
	fmt.Fprintf(os.Stdout, "  Hash (%s) of contents - %s\n", res.Algorithm, res.Digest)
	if flagShowContent {
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, "Contents:")
		fmt.Fprintln(os.Stdout, string(res.Canonical))
	}
	fmt.Fprintln(os.Stdout)
}
