package fpcommits

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/exitflynn/fpcommits/internal/api"
)

// Commit is one entry of the commit history. Repository and Author are
// snapshots taken at fetch time.
type Commit struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	// Changeset is nil when upstream redacted it.
	Changeset  *string    `json:"changeset,omitempty"`
	Repository Repository `json:"repository"`
	Author     Author     `json:"author"`
	// Message holds the non-empty lines of the commit message. It is nil when
	// upstream redacted it.
	Message []string  `json:"message,omitempty"`
	When    time.Time `json:"when"`
}

type Repository struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	// Total is the number of commits upstream reported for the scope at fetch time.
	Total int `json:"total"`
	// Branch is nil when upstream redacted it.
	Branch *Branch `json:"branch,omitempty"`
}

type Branch struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Author struct {
	Name   string  `json:"name"`
	Avatar *Avatar `json:"avatar,omitempty"`
	// URL is the profile page. Upstream only serves it for users with an
	// avatar, so it is empty whenever Avatar is nil.
	URL string `json:"url,omitempty"`
}

type Avatar struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Summary renders the commit on a single line.
func (c Commit) Summary() string {
	subject := "(redacted)"
	if c.Message != nil {
		subject = ""
		if len(c.Message) > 0 {
			subject = c.Message[0]
		}
	}
	return fmt.Sprintf("[%s @ %s] %s: %s", c.ID, c.When.Format(time.RFC3339), c.Author.Name, subject)
}

// timeLayouts are tried in order against the created field.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (f *Fetcher) normalize(rec api.Record, total int) Commit {
	e := f.endpoint
	siteURL := strings.TrimSuffix(e.BaseURL, "r/")
	repoURL := e.BaseURL + url.PathEscape(rec.Repo)

	c := Commit{
		ID:  rec.ID.String(),
		URL: siteURL + rec.ID.String(),
		Repository: Repository{
			Name:  rec.Repo,
			URL:   repoURL,
			Total: total,
		},
		Author: Author{
			Name: rec.User.Name,
		},
		When: f.parseCreated(rec),
	}

	if !e.Redacted.MatchString(rec.Changeset) {
		changeset := rec.Changeset
		c.Changeset = &changeset
	}

	if !e.Redacted.MatchString(rec.Branch) {
		c.Repository.Branch = &Branch{
			Name: rec.Branch,
			URL:  repoURL + "/" + url.PathEscape(rec.Branch),
		}
	}

	if id, ok := avatarID(e, rec.User.Avatar); ok {
		c.Author.Avatar = &Avatar{ID: id, URL: rec.User.Avatar}
		c.Author.URL = siteURL + strings.ReplaceAll(rec.User.Name, " ", "")
	}

	if !e.Redacted.MatchString(rec.Message) {
		c.Message = parseMessage(rec.Message)
	}

	return c
}

func avatarID(e Endpoint, avatarURL string) (string, bool) {
	if avatarURL == "" {
		return "", false
	}
	m := e.AvatarID.FindStringSubmatch(avatarURL)
	if m == nil {
		return "", false
	}
	for _, group := range m[1:] {
		if group != "" {
			return group, true
		}
	}
	return "", false
}

// parseMessage splits a message on every CR and LF and drops empty lines.
func parseMessage(message string) []string {
	return strings.FieldsFunc(message, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
}

// parseCreated returns the zero time when no layout matches.
func (f *Fetcher) parseCreated(rec api.Record) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, rec.Created); err == nil {
			return t
		}
	}
	f.logger.Printf("commit %s: unparseable created time %q", rec.ID, rec.Created)
	return time.Time{}
}
