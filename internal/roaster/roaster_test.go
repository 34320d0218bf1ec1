package roaster

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/drpaneas/gitroast/internal/ghfetch"
	"github.com/drpaneas/gitroast/internal/gif"
	"github.com/drpaneas/gitroast/internal/llm"
	"github.com/drpaneas/gitroast/internal/roast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fakeGitHub struct {
	profile     *ghfetch.Profile
	err         error
	detail      ghfetch.DetailResult
	detailOwner string
	detailRepo  string
}

func (f *fakeGitHub) FetchProfile(_ context.Context, _ string) (*ghfetch.Profile, error) {
	return f.profile, f.err
}

func (f *fakeGitHub) FetchDetail(_ context.Context, owner, repo string) ghfetch.DetailResult {
	f.detailOwner, f.detailRepo = owner, repo
	return f.detail
}

type fakeComposer struct {
	subject roast.Subject
}

func (f *fakeComposer) Compose(_ context.Context, s roast.Subject, _ *rand.Rand) roast.Roast {
	f.subject = s
	return roast.Roast{Story: []string{"roasted " + s.Repo.Name}, Strategy: roast.StrategyTemplate}
}

type fakeImages struct{}

func (fakeImages) Fetch(context.Context, *rand.Rand) gif.Image {
	return gif.Image{URL: "https://example.com/x.gif", Source: gif.SourceSearch}
}

func strPtr(s string) *string { return &s }

func newService(gh GitHub, c Composer) *Service {
	return New(gh, c, fakeImages{},
		WithClock(func() time.Time { return now }),
		WithTimeout(time.Second),
		WithRandSource(func() *rand.Rand { return rand.New(rand.NewPCG(1, 1)) }),
	)
}

func TestRoast_UsernameRequired(t *testing.T) {
	s := newService(&fakeGitHub{}, &fakeComposer{})
	for _, name := range []string{"", "   "} {
		_, err := s.Roast(context.Background(), name)
		assert.ErrorIs(t, err, ErrUsernameRequired)
	}
}

func TestRoast_ProfileFetchFails(t *testing.T) {
	gh := &fakeGitHub{err: ghfetch.ErrProfileFetch}
	_, err := newService(gh, &fakeComposer{}).Roast(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ghfetch.ErrProfileFetch)
	assert.False(t, errors.Is(err, ErrNoRepositories))
}

func TestRoast_NoRepositories(t *testing.T) {
	gh := &fakeGitHub{profile: &ghfetch.Profile{User: ghfetch.UserProfile{Login: "empty"}}}
	_, err := newService(gh, &fakeComposer{}).Roast(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrNoRepositories)
}

func TestRoast_PicksWorstAndAssembles(t *testing.T) {
	gh := &fakeGitHub{
		profile: &ghfetch.Profile{
			User: ghfetch.UserProfile{Login: "Octocat"},
			Repos: []ghfetch.RepoSummary{
				{Name: "popular", Stars: 100, UpdatedAt: now},
				{Name: "stale", Description: strPtr("old stuff"), Language: strPtr("Go"), Forks: 1, Watchers: 2, UpdatedAt: time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)},
			},
		},
		detail: ghfetch.DetailResult{
			Status: ghfetch.DetailAvailable,
			Detail: ghfetch.RepoDetail{
				TotalCommits:    10,
				FirstCommit:     time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
				CommitFrequency: 1.5,
				Languages:       []ghfetch.LanguageBytes{{Name: "Go", Bytes: 10}, {Name: "Makefile", Bytes: 1}},
			},
		},
	}
	c := &fakeComposer{}

	res, err := newService(gh, c).Roast(context.Background(), "octocat")
	require.NoError(t, err)

	assert.Equal(t, "Octocat", gh.detailOwner)
	assert.Equal(t, "stale", gh.detailRepo)
	assert.Equal(t, "octocat", c.subject.Username)
	assert.True(t, c.subject.Detail.Available())

	assert.Equal(t, []string{"roasted stale"}, res.Story)
	assert.Equal(t, "https://example.com/x.gif", res.GIF)
	assert.Equal(t, RepoView{
		Name:            "stale",
		Description:     strPtr("old stuff"),
		Language:        "Go",
		Languages:       []string{"Go", "Makefile"},
		Stars:           0,
		LastUpdate:      "9/10/2025",
		Forks:           1,
		Watchers:        2,
		FirstCommit:     "2/3/2024",
		CommitFrequency: "1.50",
	}, res.Repo)
}

func TestRoast_DetailUnavailable(t *testing.T) {
	gh := &fakeGitHub{
		profile: &ghfetch.Profile{
			User:  ghfetch.UserProfile{Login: "octocat"},
			Repos: []ghfetch.RepoSummary{{Name: "only", UpdatedAt: now}},
		},
		detail: ghfetch.DetailResult{Status: ghfetch.DetailUnavailable},
	}

	res, err := newService(gh, &fakeComposer{}).Roast(context.Background(), "octocat")
	require.NoError(t, err)

	assert.Equal(t, "only", res.Repo.Name)
	assert.Nil(t, res.Repo.Description)
	assert.Equal(t, "Unknown (probably HTML-only)", res.Repo.Language)
	assert.Equal(t, []string{"Unknown"}, res.Repo.Languages)
	assert.Equal(t, "Unknown", res.Repo.FirstCommit)
	assert.Equal(t, "Unknown", res.Repo.CommitFrequency)
}

// TestRoast_EndToEnd wires the real fetchers and template composer against
// fake GitHub and Giphy servers whose secondary endpoints all fail.
func TestRoast_EndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/solo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"login": "solo", "public_repos": 1, "created_at": "2020-01-01T00:00:00Z"}`))
	})
	mux.HandleFunc("GET /users/solo/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name": "lonely", "stargazers_count": 0, "forks_count": 0, "watchers_count": 0, "updated_at": "2026-10-15T12:00:00Z"}]`))
	})
	mux.HandleFunc("GET /repos/solo/lonely/commits", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /repos/solo/lonely/languages", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	gh := httptest.NewServer(mux)
	defer gh.Close()

	giphy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer giphy.Close()

	fetcher, err := ghfetch.NewFetcher("", ghfetch.WithBaseURL(gh.URL))
	require.NoError(t, err)
	composer := roast.NewComposer(nil, roast.DefaultBanks(), roast.WithClock(func() time.Time { return now }))
	images := gif.NewFetcher("key", gif.WithBaseURL(giphy.URL))

	s := New(fetcher, composer, images, WithClock(func() time.Time { return now }), WithTimeout(5*time.Second))
	res, err := s.Roast(context.Background(), "solo")
	require.NoError(t, err)

	assert.Equal(t, "lonely", res.Repo.Name)
	assert.GreaterOrEqual(t, len(res.Story), 1)
	assert.LessOrEqual(t, len(res.Story), 3)
	assert.True(t, slices.Contains(gif.DefaultLists().FallbackURLs, res.GIF), "gif %q is not a fallback", res.GIF)
	assert.Equal(t, "Unknown", res.Repo.FirstCommit)
}

const callTimeout = 50 * time.Millisecond

// hangingServer answers nothing until the client gives up.
func hangingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	return srv
}

type stalledDetail struct {
	profile *ghfetch.Profile
}

func (s *stalledDetail) FetchProfile(context.Context, string) (*ghfetch.Profile, error) {
	return s.profile, nil
}

func (s *stalledDetail) FetchDetail(ctx context.Context, _, _ string) ghfetch.DetailResult {
	<-ctx.Done()
	return ghfetch.DetailResult{Status: ghfetch.DetailUnavailable}
}

type stalledProvider struct{}

func (stalledProvider) Complete(ctx context.Context, _, _ string, _ *llm.CompleteOptions) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type recordingComposer struct {
	inner Composer
	got   roast.Roast
}

func (r *recordingComposer) Compose(ctx context.Context, s roast.Subject, rng *rand.Rand) roast.Roast {
	r.got = r.inner.Compose(ctx, s, rng)
	return r.got
}

func TestRoast_HungProfileFetch(t *testing.T) {
	fetcher, err := ghfetch.NewFetcher("", ghfetch.WithBaseURL(hangingServer(t).URL))
	require.NoError(t, err)
	s := New(fetcher, &fakeComposer{}, fakeImages{}, WithTimeout(callTimeout))

	start := time.Now()
	_, err = s.Roast(context.Background(), "slowpoke")

	require.Error(t, err)
	assert.ErrorIs(t, err, ghfetch.ErrProfileFetch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, errors.Is(err, ErrNoRepositories))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRoast_HungSecondaryCallsRecover(t *testing.T) {
	gh := &stalledDetail{profile: &ghfetch.Profile{
		User:  ghfetch.UserProfile{Login: "slowpoke"},
		Repos: []ghfetch.RepoSummary{{Name: "molasses", Language: strPtr("Go"), UpdatedAt: now}},
	}}
	composer := &recordingComposer{
		inner: roast.NewComposer(stalledProvider{}, roast.DefaultBanks(), roast.WithClock(func() time.Time { return now })),
	}
	images := gif.NewFetcher("key", gif.WithBaseURL(hangingServer(t).URL))

	s := New(gh, composer, images,
		WithClock(func() time.Time { return now }),
		WithTimeout(callTimeout),
	)

	start := time.Now()
	res, err := s.Roast(context.Background(), "slowpoke")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Equal(t, "molasses", res.Repo.Name)
	assert.Equal(t, "Unknown", res.Repo.FirstCommit)
	assert.Equal(t, "Unknown", res.Repo.CommitFrequency)
	assert.Equal(t, roast.StrategyTemplate, composer.got.Strategy)
	assert.NotEmpty(t, res.Story)
	assert.Equal(t, composer.got.Story, res.Story)
	assert.True(t, slices.Contains(gif.DefaultLists().FallbackURLs, res.GIF), "gif %q is not a fallback", res.GIF)
}
