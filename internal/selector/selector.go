// Package selector picks the "worst" repository of a user by a fixed
// popularity-minus-staleness score.
package selector

import (
	"errors"
	"time"

	"github.com/drpaneas/gitroast/internal/ghfetch"
)

// ErrNoRepositories is returned when there is nothing to choose from.
var ErrNoRepositories = errors.New("no repositories to select from")

// Scored pairs a repository with its computed score.
type Scored struct {
	Repo  ghfetch.RepoSummary
	Score float64
}

// Score computes 2*stars + 2*forks + watchers - daysSinceUpdate/30.
// Days are fractional, measured from UpdatedAt to now.
func Score(r ghfetch.RepoSummary, now time.Time) float64 {
	days := now.Sub(r.UpdatedAt).Hours() / 24
	return float64(2*r.Stars+2*r.Forks+r.Watchers) - days/30
}

// Worst returns the repository with the lowest score. On ties the earliest
// repository in repos wins.
func Worst(repos []ghfetch.RepoSummary, now time.Time) (Scored, error) {
	if len(repos) == 0 {
		return Scored{}, ErrNoRepositories
	}
	worst := Scored{Repo: repos[0], Score: Score(repos[0], now)}
	for _, r := range repos[1:] {
		if s := Score(r, now); s < worst.Score {
			worst = Scored{Repo: r, Score: s}
		}
	}
	return worst, nil
}
