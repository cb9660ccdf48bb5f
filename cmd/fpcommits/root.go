package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/exitflynn/fpcommits"
	"github.com/exitflynn/fpcommits/internal/config"
)

type rootFlags struct {
	configFile string
	baseURL    string
	timeout    time.Duration
	repository string
	max        int
	userAgent  string
	from       string
	asJSON     bool
	verbose    bool
}

// NewRootCmd constructs the fpcommits command.
func NewRootCmd() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:           "fpcommits",
		Short:         "Print recent commits from the Facepunch commits service",
		Long:          "fpcommits fetches the newest commits of one repository, or of all of them, and prints a summary per commit.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configFile, "config", "c", "", "config `file` (default "+config.DefaultPath+" if present)")
	flags.StringVar(&f.baseURL, "base-url", "", "commits listing `url`, ending in /")
	flags.DurationVar(&f.timeout, "timeout", 0, "per-request HTTP timeout")
	flags.StringVarP(&f.repository, "repository", "r", "", "only fetch commits of the `name`d repository")
	flags.IntVarP(&f.max, "max", "n", fpcommits.DefaultMax, "number of commits to fetch")
	flags.StringVar(&f.userAgent, "user-agent", "", "User-Agent header sent upstream")
	flags.StringVar(&f.from, "from", "", "contact details sent in the From header")
	flags.BoolVar(&f.asJSON, "json", false, "print commits as JSON")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log each page request")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}

	cfg, err := config.LoadConfig(config.DefaultPath)
	if errors.Is(err, fs.ErrNotExist) {
		def, err := config.New(nil)
		if err != nil {
			return nil, err
		}
		return &def, nil
	}
	return cfg, err
}

func run(cmd *cobra.Command, f rootFlags) error {
	cfg, err := loadConfig(f.configFile)
	if err != nil {
		return err
	}

	// Flags override the config file
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.Endpoint.BaseURL = f.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Endpoint.Timeout = f.timeout
	}
	if flags.Changed("repository") {
		cfg.Fetch["repository"] = f.repository
	}
	if flags.Changed("max") {
		cfg.Fetch["max"] = f.max
	}
	if flags.Changed("user-agent") {
		cfg.Fetch["userAgent"] = f.userAgent
	}
	if flags.Changed("from") {
		cfg.Fetch["from"] = f.from
	}
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := fpcommits.Resolve(cfg.Options())
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(cmd.ErrOrStderr(), "fpcommits: ", log.LstdFlags)
	}

	fetcher := fpcommits.NewFetcher(
		fpcommits.WithEndpoint(fpcommits.Endpoint{BaseURL: cfg.Endpoint.BaseURL}),
		fpcommits.WithHTTPClient(&http.Client{Timeout: cfg.Endpoint.Timeout}),
		fpcommits.WithLogger(logger),
	)

	commits, err := fetcher.Fetch(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.asJSON {
		b, err := json.MarshalIndent(commits, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", b)
		return err
	}

	render(out, commits)
	return nil
}

func render(w io.Writer, commits []fpcommits.Commit) {
	colorTitle := color.New(color.FgGreen).Add(color.Underline)
	colorRepo := color.New(color.FgYellow)

	colorTitle.Fprintf(w, "Fetched %d commits", len(commits))
	fmt.Fprintln(w)
	for _, c := range commits {
		colorRepo.Fprint(w, c.Repository.Name)
		fmt.Fprintf(w, " %s\n", c.Summary())
	}
}
