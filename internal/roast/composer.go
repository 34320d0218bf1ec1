// Package roast composes the roast text, either by asking a text
// generation backend or from fixed phrase banks.
package roast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/drpaneas/gitroast/internal/ghfetch"
	"github.com/drpaneas/gitroast/internal/llm"
	"github.com/drpaneas/gitroast/internal/textutil"
)

const (
	storyParts = 3
	// A repo untouched for more than this many 30-day months is "old".
	staleMonths = 6
)

// Generation parameters sent with every roast prompt.
var (
	temperature = float32(0.9)
	topP        = float32(0.9)
	genOptions  = &llm.CompleteOptions{
		Temperature: &temperature,
		TopP:        &topP,
		TopK:        40,
		MaxTokens:   512,
		BlockUnsafe: true,
	}
)

var errEmptyGeneration = errors.New("generation produced no text")

// Strategy identifies how a Roast was produced.
type Strategy int

const (
	StrategyGenerated Strategy = iota
	StrategyTemplate
)

func (s Strategy) String() string {
	switch s {
	case StrategyGenerated:
		return "generated"
	case StrategyTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// Subject is everything known about the roast target.
type Subject struct {
	Username string
	User     ghfetch.UserProfile
	Repo     ghfetch.RepoSummary
	Detail   ghfetch.DetailResult
}

// Roast is the composed story, 1 to 3 non-empty segments.
type Roast struct {
	Story    []string
	Strategy Strategy
}

// Composer builds roasts. It is safe for concurrent use as long as each
// call gets its own *rand.Rand.
type Composer struct {
	provider llm.Provider
	banks    Banks
	now      func() time.Time
}

// Option configures a Composer.
type Option func(*Composer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// NewComposer returns a Composer. A nil provider composes from templates only.
func NewComposer(provider llm.Provider, banks Banks, opts ...Option) *Composer {
	c := &Composer{provider: provider, banks: banks, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose returns a generated roast, falling back to the template roast
// when there is no provider or the provider fails. It never fails.
// A nil rng uses the global source.
func (c *Composer) Compose(ctx context.Context, s Subject, rng *rand.Rand) Roast {
	if c.provider != nil {
		story, err := c.generate(ctx, s, rng)
		if err == nil {
			return Roast{Story: story, Strategy: StrategyGenerated}
		}
		slog.Warn("roast generation failed, using templates", "username", s.Username, "error", err)
	}
	return Roast{Story: c.Template(s, rng), Strategy: StrategyTemplate}
}

func (c *Composer) generate(ctx context.Context, s Subject, rng *rand.Rand) ([]string, error) {
	opener := c.substitute(pick(rng, c.banks.RepoOpeners), s)
	prompt, err := buildPrompt(s, opener, c.now())
	if err != nil {
		return nil, err
	}
	text, err := c.provider.Complete(ctx, systemPrompt, prompt, genOptions)
	if err != nil {
		return nil, fmt.Errorf("completing roast: %w", err)
	}
	story := SplitStory(text)
	if len(story) == 0 {
		return nil, errEmptyGeneration
	}
	return story, nil
}

// SplitStory splits text into sentences and groups them into at most three
// contiguous, roughly equal segments.
func SplitStory(text string) []string {
	return textutil.Partition(textutil.Sentences(text), storyParts)
}

// Template composes a roast from the phrase banks: a user insult, then a
// commit and a language insult, then complaints for each defect the
// repository actually has.
func (c *Composer) Template(s Subject, rng *rand.Rand) []string {
	userRoast := pick(rng, c.banks.User)
	commitRoast := pick(rng, c.banks.Commit)
	langRoast := pick(rng, c.banks.languageBank(deref(s.Repo.Language)))

	var issues []string
	if strings.TrimSpace(deref(s.Repo.Description)) == "" {
		issues = append(issues, pick(rng, c.banks.NoDescription))
	}
	if s.Repo.Stars == 0 {
		issues = append(issues, pick(rng, c.banks.NoStars))
	}
	if c.now().Sub(s.Repo.UpdatedAt).Hours()/(24*30) > staleMonths {
		issues = append(issues, pick(rng, c.banks.OldRepo))
	}

	segments := []string{
		userRoast,
		strings.TrimSpace(commitRoast + " " + langRoast),
		strings.Join(nonEmpty(issues), " "),
	}
	story := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg = strings.TrimSpace(c.substitute(seg, s)); seg != "" {
			story = append(story, seg)
		}
	}
	return story
}

func (c *Composer) substitute(phrase string, s Subject) string {
	r := strings.NewReplacer(
		"{username}", s.Username,
		"{current_year}", strconv.Itoa(c.now().Year()),
		"{repo_name}", s.Repo.Name,
	)
	return r.Replace(phrase)
}

func pick(rng *rand.Rand, bank []string) string {
	if len(bank) == 0 {
		return ""
	}
	if rng == nil {
		return bank[rand.IntN(len(bank))]
	}
	return bank[rng.IntN(len(bank))]
}

func nonEmpty(items []string) []string {
	out := items[:0]
	for _, s := range items {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
