package roast

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/drpaneas/gitroast/internal/textutil"
)

const systemPrompt = `You are a savage but playful stand-up comedian who roasts software developers based on their public GitHub activity.`

const roastPromptTemplate = `You're a savage stand-up comedian roasting a GitHub developer. Create a continuous, flowing roast (about 100-120 words) that starts with personal jabs, moves through their code, and ends with a sarcastic career advice punchline. Don't use any headings or sections and don't use quotation marks.

Developer Info:
Username: {{.Username}}
Bio: {{.Bio}}
Active for: {{.YearsActive}} years
Portfolio: {{.Portfolio}}
Company: {{.Company}}
Location: {{.Location}}
Public repos: {{.PublicRepos}}
Followers: {{.Followers}}

Repository "{{.RepoName}}":
Roast opener: {{.Opener}}
Description: {{.Description}}
Languages: {{.Languages}}
Stars: {{.Stars}}
Days inactive: {{.DaysInactive}}
Commit frequency: {{.CommitFrequency}} commits per day
First commit: {{.FirstCommit}}

Start with roasting their profile, then use the provided repo roast opener, continue mocking their repository and coding style, and end with a sarcastic suggestion about an alternative career. Make it flow naturally as one continuous roast. Keep it spicy but playful!`

var roastPrompt = template.Must(template.New("roast").Parse(roastPromptTemplate))

// Free-text profile fields are capped so one long bio can't crowd the prompt.
const maxFieldLen = 500

type promptData struct {
	Username        string
	Bio             string
	YearsActive     string
	Portfolio       string
	Company         string
	Location        string
	PublicRepos     int
	Followers       int
	RepoName        string
	Opener          string
	Description     string
	Languages       string
	Stars           int
	DaysInactive    int
	CommitFrequency string
	FirstCommit     string
}

func buildPrompt(s Subject, opener string, now time.Time) (string, error) {
	u, r := s.User, s.Repo
	data := promptData{
		Username:        s.Username,
		Bio:             orDefault(u.Bio, "No bio"),
		YearsActive:     fmt.Sprintf("%.1f", now.Sub(u.CreatedAt).Hours()/(24*365)),
		Portfolio:       "no portfolio (probably for the best)",
		Company:         orDefault(u.Company, "Unemployed"),
		Location:        orDefault(u.Location, "Unknown"),
		PublicRepos:     u.PublicRepos,
		Followers:       u.Followers,
		RepoName:        r.Name,
		Opener:          opener,
		Description:     "No description",
		Languages:       orDefault(deref(r.Language), "Unknown"),
		Stars:           r.Stars,
		DaysInactive:    int(now.Sub(r.UpdatedAt).Hours() / 24),
		CommitFrequency: "Unknown",
		FirstCommit:     "Unknown",
	}
	if u.Blog != "" {
		data.Portfolio = "has a portfolio at " + u.Blog
	}
	if d := deref(r.Description); d != "" {
		data.Description = d
	}
	if s.Detail.Available() {
		d := s.Detail.Detail
		if names := d.LanguageNames(); len(names) > 0 {
			data.Languages = strings.Join(names, ", ")
		}
		data.CommitFrequency = fmt.Sprintf("%.2f", d.CommitFrequency)
		data.FirstCommit = d.FirstCommit.UTC().Format(time.RFC3339)
	}
	data.Bio = textutil.Truncate(data.Bio, maxFieldLen, "...")
	data.Description = textutil.Truncate(data.Description, maxFieldLen, "...")

	var buf bytes.Buffer
	if err := roastPrompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing roast prompt: %w", err)
	}
	return buf.String(), nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
