package ghfetch

import (
	"math"
	"time"
)

// UserProfile is a snapshot of a GitHub account's public profile.
type UserProfile struct {
	Login       string
	Bio         string
	Company     string
	Location    string
	Blog        string
	Followers   int
	PublicRepos int
	CreatedAt   time.Time
}

// RepoSummary is the per-repository metadata returned by the listing call.
type RepoSummary struct {
	Name        string
	Description *string
	Language    *string
	Stars       int
	Forks       int
	Watchers    int
	UpdatedAt   time.Time
}

// Profile is the result of the primary fetch: the account and up to one
// page of its repositories, most recently updated first.
type Profile struct {
	User  UserProfile
	Repos []RepoSummary
}

// LanguageBytes is one entry of a repository's language breakdown.
type LanguageBytes struct {
	Name  string
	Bytes int
}

// RepoDetail is the optional enrichment for a single repository.
type RepoDetail struct {
	TotalCommits    int
	FirstCommit     time.Time
	LastCommit      time.Time
	CommitFrequency float64 // commits per day, two decimal places
	Languages       []LanguageBytes
}

// LanguageNames returns the language names, largest first.
func (d RepoDetail) LanguageNames() []string {
	names := make([]string, len(d.Languages))
	for i, l := range d.Languages {
		names[i] = l.Name
	}
	return names
}

// DetailStatus distinguishes a completed detail fetch from one that failed.
type DetailStatus int

const (
	DetailUnavailable DetailStatus = iota
	DetailAvailable
)

func (s DetailStatus) String() string {
	if s == DetailAvailable {
		return "available"
	}
	return "unavailable"
}

// DetailResult is the outcome of a best-effort detail fetch. Detail is only
// meaningful when Status is DetailAvailable.
type DetailResult struct {
	Status DetailStatus
	Detail RepoDetail
}

// Available reports whether the detail fetch succeeded.
func (r DetailResult) Available() bool { return r.Status == DetailAvailable }

// commitFrequency divides commits by the span in days, with a floor of one
// day, rounded to two decimal places.
func commitFrequency(total int, first, last time.Time) float64 {
	days := last.Sub(first).Hours() / 24
	days = math.Max(math.Abs(days), 1)
	return math.Round(float64(total)/days*100) / 100
}
