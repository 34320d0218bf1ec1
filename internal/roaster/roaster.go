// Package roaster runs the whole roast pipeline for one username: fetch,
// select the worst repository, enrich it, compose the roast and attach a
// reaction image.
package roaster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/drpaneas/gitroast/internal/ghfetch"
	"github.com/drpaneas/gitroast/internal/gif"
	"github.com/drpaneas/gitroast/internal/roast"
	"github.com/drpaneas/gitroast/internal/selector"
	"golang.org/x/sync/errgroup"
)

const (
	unknown         = "Unknown"
	unknownLanguage = "Unknown (probably HTML-only)"
	dateLayout      = "1/2/2006"
)

var (
	// ErrUsernameRequired is returned for a missing or blank username.
	ErrUsernameRequired = errors.New("username is required")
	// ErrNoRepositories is returned when the user has no public repositories.
	ErrNoRepositories = errors.New("no repositories found")
)

// GitHub is the data source for profiles and repository details.
type GitHub interface {
	FetchProfile(ctx context.Context, username string) (*ghfetch.Profile, error)
	FetchDetail(ctx context.Context, owner, repo string) ghfetch.DetailResult
}

// Composer turns a subject into roast text.
type Composer interface {
	Compose(ctx context.Context, s roast.Subject, rng *rand.Rand) roast.Roast
}

// Images supplies a reaction image.
type Images interface {
	Fetch(ctx context.Context, rng *rand.Rand) gif.Image
}

// Result is the response contract handed to the presentation layer.
type Result struct {
	Story []string `json:"story"`
	Repo  RepoView `json:"repo"`
	GIF   string   `json:"gif"`
}

// RepoView is the display projection of the roasted repository.
type RepoView struct {
	Name            string   `json:"name"`
	Description     *string  `json:"description"`
	Language        string   `json:"language"`
	Languages       []string `json:"languages,omitempty"`
	Stars           int      `json:"stars"`
	LastUpdate      string   `json:"lastUpdate"`
	Forks           int      `json:"forks"`
	Watchers        int      `json:"watchers"`
	FirstCommit     string   `json:"firstCommit,omitempty"`
	CommitFrequency string   `json:"commitFrequency,omitempty"`
}

// Service runs roast requests. It holds no per-request state.
type Service struct {
	github   GitHub
	composer Composer
	images   Images
	timeout  time.Duration
	now      func() time.Time
	newRand  func() *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds every outbound call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithClock overrides the time source used for scoring.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandSource sets the constructor for per-call random sources. It is
// called once for the composer and once for the image fetcher per request.
func WithRandSource(newRand func() *rand.Rand) Option {
	return func(s *Service) { s.newRand = newRand }
}

// New returns a Service.
func New(github GitHub, composer Composer, images Images, opts ...Option) *Service {
	s := &Service{
		github:   github,
		composer: composer,
		images:   images,
		timeout:  15 * time.Second,
		now:      time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Roast produces the roast for username. Only a missing username, a failed
// profile fetch or an empty repository list fail the call; detail,
// generation and image failures are recovered.
func (s *Service) Roast(ctx context.Context, username string) (*Result, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	profile, err := s.github.FetchProfile(fetchCtx, username)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", username, err)
	}

	target, err := selector.Worst(profile.Repos, s.now())
	if errors.Is(err, selector.ErrNoRepositories) {
		return nil, ErrNoRepositories
	}
	if err != nil {
		return nil, fmt.Errorf("selecting repository: %w", err)
	}
	slog.Debug("selected worst repository", "username", username, "repo", target.Repo.Name, "score", target.Score)

	owner := profile.User.Login
	if owner == "" {
		owner = username
	}

	var (
		detail   ghfetch.DetailResult
		roasted  roast.Roast
		image    gif.Image
		roastRng = s.newRand()
		imageRng = s.newRand()
	)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		detailCtx, cancel := context.WithTimeout(gCtx, s.timeout)
		detail = s.github.FetchDetail(detailCtx, owner, target.Repo.Name)
		cancel()

		composeCtx, cancel := context.WithTimeout(gCtx, s.timeout)
		defer cancel()
		roasted = s.composer.Compose(composeCtx, roast.Subject{
			Username: username,
			User:     profile.User,
			Repo:     target.Repo,
			Detail:   detail,
		}, roastRng)
		return nil
	})

	g.Go(func() error {
		imageCtx, cancel := context.WithTimeout(gCtx, s.timeout)
		defer cancel()
		image = s.images.Fetch(imageCtx, imageRng)
		return nil
	})

	_ = g.Wait()

	slog.Info("roast complete",
		"username", username,
		"repo", target.Repo.Name,
		"detail", detail.Status,
		"strategy", roasted.Strategy,
		"gif", image.Source,
	)

	return &Result{
		Story: roasted.Story,
		Repo:  repoView(target.Repo, detail),
		GIF:   image.URL,
	}, nil
}

func repoView(r ghfetch.RepoSummary, detail ghfetch.DetailResult) RepoView {
	var lang string
	if r.Language != nil {
		lang = *r.Language
	}
	v := RepoView{
		Name:            r.Name,
		Description:     r.Description,
		Language:        orDefault(lang, unknownLanguage),
		Languages:       []string{orDefault(lang, unknown)},
		Stars:           r.Stars,
		LastUpdate:      r.UpdatedAt.UTC().Format(dateLayout),
		Forks:           r.Forks,
		Watchers:        r.Watchers,
		FirstCommit:     unknown,
		CommitFrequency: unknown,
	}

	if detail.Available() {
		d := detail.Detail
		v.FirstCommit = d.FirstCommit.UTC().Format(dateLayout)
		v.CommitFrequency = fmt.Sprintf("%.2f", d.CommitFrequency)
		if names := d.LanguageNames(); len(names) > 0 {
			v.Languages = names
		}
	}
	return v
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
