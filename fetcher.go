package fpcommits

import (
	"context"
	"io"
	"log"
	"net/http"
	"regexp"

	"github.com/exitflynn/fpcommits/internal/api"
)

const (
	// DefaultBaseURL is the commits listing of the upstream service. The
	// repository name is appended to it.
	DefaultBaseURL = "https://commits.facepunch.com/r/"

	// DefaultPageSize is the number of commits upstream returns per page.
	DefaultPageSize = 100
)

var (
	defaultRedacted = regexp.MustCompile(`[▍▆▇▊▌▉▋█▅▄]`)
	defaultAvatarID = regexp.MustCompile(`/s/([a-zA-Z0-9]+)|/avatar/([0-9-]+)`)
)

// Endpoint describes the upstream service. It is fixed for the lifetime of a
// Fetcher.
type Endpoint struct {
	// BaseURL ends with the separator that precedes the repository name.
	BaseURL string
	// PageSize is how many records upstream returns per page.
	PageSize int
	// Redacted matches field values that upstream has masked.
	Redacted *regexp.Regexp
	// AvatarID extracts the avatar identifier from an avatar URL. The first
	// non-empty capture group is used.
	AvatarID *regexp.Regexp
}

// DefaultEndpoint returns the settings of the public commits service.
func DefaultEndpoint() Endpoint {
	return Endpoint{
		BaseURL:  DefaultBaseURL,
		PageSize: DefaultPageSize,
		Redacted: defaultRedacted,
		AvatarID: defaultAvatarID,
	}
}

func (e Endpoint) withDefaults() Endpoint {
	def := DefaultEndpoint()
	if e.BaseURL == "" {
		e.BaseURL = def.BaseURL
	}
	if e.PageSize < 1 {
		e.PageSize = def.PageSize
	}
	if e.Redacted == nil {
		e.Redacted = def.Redacted
	}
	if e.AvatarID == nil {
		e.AvatarID = def.AvatarID
	}
	return e
}

// Doer performs HTTP requests for a Fetcher. *http.Client satisfies it.
type Doer = api.Doer

// Fetcher retrieves commit history. It holds no per-call state and is safe
// for concurrent use.
type Fetcher struct {
	endpoint Endpoint
	doer     Doer
	logger   *log.Logger
}

type FetcherOption func(*Fetcher)

// WithEndpoint points the fetcher at a different service. Zero fields keep
// their defaults.
func WithEndpoint(e Endpoint) FetcherOption {
	return func(f *Fetcher) {
		f.endpoint = e.withDefaults()
	}
}

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(d Doer) FetcherOption {
	return func(f *Fetcher) {
		if d != nil {
			f.doer = d
		}
	}
}

// WithLogger enables request logging.
func WithLogger(l *log.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher for the public service unless options say otherwise.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		endpoint: DefaultEndpoint(),
		doer:     http.DefaultClient,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns up to opts.Max commits, newest first. Any failure aborts the
// whole call and no commits are returned.
func (f *Fetcher) Fetch(ctx context.Context, opts Options) ([]Commit, error) {
	var commits []Commit
	err := f.Each(ctx, opts, func(c Commit) error {
		commits = append(commits, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

// Each calls fn for every fetched commit in order, requesting pages one at a
// time as they are needed. Commits passed to fn before a failure are not
// retracted. An error from fn stops the iteration and is returned as is.
func (f *Fetcher) Each(ctx context.Context, opts Options, fn func(Commit) error) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	limit := opts.limit()
	repository := opts.repository()
	pageSize := f.endpoint.PageSize

	pages := limit / pageSize
	if limit%pageSize != 0 {
		pages++
	}

	client := api.NewClient(f.doer, f.endpoint.BaseURL, opts.UserAgent, opts.From)

	count := 0
	for page := 1; page <= pages; page++ {
		if count >= limit {
			break
		}

		f.logger.Printf("fetching page %d of %d for repository %q", page, pages, repository)
		result, err := client.GetPage(ctx, repository, page)
		if err != nil {
			return err
		}

		if result.Total < 1 {
			return &UpstreamError{Kind: EmptyRepository, Repository: repository, Page: page}
		}
		if len(result.Results) < 1 {
			return &UpstreamError{Kind: EmptyPage, Repository: repository, Page: page}
		}

		for _, rec := range result.Results {
			if count >= limit {
				break
			}
			if err := fn(f.normalize(rec, result.Total)); err != nil {
				return err
			}
			count++
		}
	}

	return nil
}
