package ghfetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/go-github/v68/github"
	"golang.org/x/sync/errgroup"
)

const (
	maxRepos   = 100
	maxCommits = 100
)

// ErrProfileFetch is returned when either the profile or the repository
// listing could not be retrieved.
var ErrProfileFetch = errors.New("github profile fetch failed")

// Option configures a Fetcher.
type Option func(*options)

type options struct {
	baseURL string
}

// WithBaseURL points the Fetcher at a different GitHub API root.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// Fetcher retrieves GitHub profile, repository and commit data.
type Fetcher struct {
	client *github.Client
}

// NewFetcher returns a Fetcher. An empty token makes unauthenticated calls.
func NewFetcher(token string, opts ...Option) (*Fetcher, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	client, err := newGitHubClient(token, o.baseURL)
	if err != nil {
		return nil, fmt.Errorf("creating github client: %w", err)
	}
	return &Fetcher{client: client}, nil
}

// FetchProfile concurrently retrieves the user's profile and up to 100 of
// their repositories sorted by most recently updated. Both must succeed;
// any failure is reported as ErrProfileFetch.
func (f *Fetcher) FetchProfile(ctx context.Context, username string) (*Profile, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", ErrProfileFetch)
	}

	var result Profile
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, _, err := f.client.Users.Get(gCtx, username)
		if err != nil {
			return fmt.Errorf("fetching user: %w", err)
		}
		result.User = UserProfile{
			Login:       user.GetLogin(),
			Bio:         user.GetBio(),
			Company:     user.GetCompany(),
			Location:    user.GetLocation(),
			Blog:        user.GetBlog(),
			Followers:   user.GetFollowers(),
			PublicRepos: user.GetPublicRepos(),
			CreatedAt:   user.GetCreatedAt().Time,
		}
		return nil
	})

	g.Go(func() error {
		repos, _, err := f.client.Repositories.ListByUser(gCtx, username, &github.RepositoryListByUserOptions{
			Sort:        "updated",
			ListOptions: github.ListOptions{PerPage: maxRepos},
		})
		if err != nil {
			return fmt.Errorf("listing repos: %w", err)
		}
		result.Repos = make([]RepoSummary, 0, len(repos))
		for _, r := range repos {
			result.Repos = append(result.Repos, RepoSummary{
				Name:        r.GetName(),
				Description: r.Description,
				Language:    r.Language,
				Stars:       r.GetStargazersCount(),
				Forks:       r.GetForksCount(),
				Watchers:    r.GetWatchersCount(),
				UpdatedAt:   r.GetUpdatedAt().Time,
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetch, err)
	}
	return &result, nil
}

// FetchDetail concurrently retrieves up to 100 recent commits and the
// language breakdown of one repository. It never returns an error: any
// failure, or a repository with no commits, yields DetailUnavailable.
func (f *Fetcher) FetchDetail(ctx context.Context, owner, repo string) DetailResult {
	var (
		commits []*github.RepositoryCommit
		langs   map[string]int
	)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		commits, _, err = f.client.Repositories.ListCommits(gCtx, owner, repo, &github.CommitsListOptions{
			ListOptions: github.ListOptions{PerPage: maxCommits},
		})
		if err != nil {
			return fmt.Errorf("listing commits: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		langs, _, err = f.client.Repositories.ListLanguages(gCtx, owner, repo)
		if err != nil {
			return fmt.Errorf("listing languages: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Warn("repo detail unavailable", "repo", owner+"/"+repo, "error", err)
		return DetailResult{Status: DetailUnavailable}
	}
	if len(commits) == 0 {
		slog.Warn("repo detail unavailable", "repo", owner+"/"+repo, "error", "no commits")
		return DetailResult{Status: DetailUnavailable}
	}

	// Commits arrive newest first.
	last := commits[0].GetCommit().GetAuthor().GetDate().Time
	first := commits[len(commits)-1].GetCommit().GetAuthor().GetDate().Time

	return DetailResult{
		Status: DetailAvailable,
		Detail: RepoDetail{
			TotalCommits:    len(commits),
			FirstCommit:     first,
			LastCommit:      last,
			CommitFrequency: commitFrequency(len(commits), first, last),
			Languages:       sortLanguages(langs),
		},
	}
}

// sortLanguages orders languages by byte count descending, then by name.
func sortLanguages(langs map[string]int) []LanguageBytes {
	out := make([]LanguageBytes, 0, len(langs))
	for name, n := range langs {
		out = append(out, LanguageBytes{Name: name, Bytes: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bytes != out[j].Bytes {
			return out[i].Bytes > out[j].Bytes
		}
		return out[i].Name < out[j].Name
	})
	return out
}
