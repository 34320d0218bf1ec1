package roast

// Banks holds the fixed phrase banks used for template roasts and prompt
// openers. Phrases may contain {username}, {current_year} and {repo_name}.
type Banks struct {
	User   []string
	Commit []string
	// Language is keyed by primary language; "" is the default bucket.
	Language      map[string][]string
	NoDescription []string
	NoStars       []string
	OldRepo       []string
	RepoOpeners   []string
}

// DefaultBanks returns the built-in phrase banks.
func DefaultBanks() Banks {
	return Banks{
		User: []string{
			"Ah, {username} - living proof that anyone can create a GitHub account. Your bio screams 'I watched one coding tutorial and thought I was ready for FAANG.'",
			"Look who we have here - {username}, the developer whose contribution graph looks like a cemetery at midnight.",
			"Oh {username}, your GitHub profile is what we in the industry call 'technically present' - like a Windows ME user in {current_year}.",
			"Well, well, well, if it isn't {username} - the developer whose code makes spaghetti look organized.",
			"Ladies and gentlemen, meet {username} - proof that Stack Overflow copy-paste can sustain a whole career.",
		},
		Commit: []string{
			"Your commit messages are shorter than your attention span. 'fix stuff' and 'update' - really? Even Git is crying.",
			"Your commit history looks like a panic attack in morse code. Let me guess, 'final_final_v2_REAL_final' is your naming convention?",
			"I've seen more meaningful communication from a broken keyboard than your commit messages.",
			"Your commit history reads like a thriller - nobody knows what's happening, including you.",
			"Your commits are like your dating life - inconsistent and full of regrets.",
		},
		Language: map[string][]string{
			"JavaScript": {
				"Ah, JavaScript - because you couldn't handle TypeScript's tough love. Your code has more callbacks than your dating life.",
				"JavaScript? Your code probably has more nested callbacks than your family tree.",
				"Using JavaScript in {current_year}? Your code must be as reliable as a chocolate teapot.",
			},
			"Python": {
				"Python developer? More like 'indent error' survivor. Your code is so basic, it probably starts with 'print(\"Hello, World!\")'.",
				"Ah, Python - where indentation matters more than your code logic.",
				"Python? Your code is so slow, it makes a snail look like Usain Bolt.",
			},
			"HTML": {
				"Calling yourself a developer while only writing HTML is like calling yourself a chef because you can make toast.",
				"HTML as your main language? That's like saying Microsoft Paint is your photo editing software.",
				"HTML developer? That's not a thing, and you know it.",
			},
			"CSS": {
				"CSS? Your styling is so bad, even Internet Explorer would be embarrassed to render it.",
				"Your CSS looks like it was written by someone playing Twister with their keyboard.",
				"CSS master? More like 'div soup' chef.",
			},
			"Java": {
				"Java? In {current_year}? Your code has more boilerplate than actual logic. Spring Boot can't save you.",
				"Java developer? Your code must be as verbose as a politician's excuse.",
				"Still writing Java? You must really enjoy typing getters and setters.",
			},
			"TypeScript": {
				"TypeScript? Trying to add types won't fix your logical errors.",
				"Using TypeScript but still getting runtime errors? Impressive.",
				"TypeScript developer - because regular JavaScript wasn't complicated enough for you.",
			},
			"": {
				"No primary language? Commitment issues aren't just for relationships, I see.",
				"Can't settle on a primary language? Jack of all trades, master of none - emphasis on none.",
				"Your most used language is probably Copy & Paste.",
			},
		},
		NoDescription: []string{
			"No description? Your repo is more mysterious than your career prospects.",
			"Description-less repository? Even modern art comes with an explanation.",
			"No description added? Even mimes communicate better than this.",
		},
		NoStars: []string{
			"Zero stars? Even your test repositories are feeling lonely.",
			"No stars? Your repository is less popular than a Monday morning.",
			"The star count matches your debugging skills - absolute zero.",
		},
		OldRepo: []string{
			"Last updated when dinosaurs roamed? Archaeological teams are more active than your git push frequency.",
			"This repo is so old, it probably runs on steam power.",
			"Your last commit is old enough to have its own GitHub account.",
		},
		RepoOpeners: []string{
			"Let's talk about {repo_name} - a masterpiece of mediocrity. It's like you're trying to set a world record for the most antipatterns in one codebase.",
			"Ah, {repo_name} - the digital equivalent of a dumpster fire. Even the comments look embarrassed to be there.",
			"Oh, {repo_name}! I've seen better organized code in a keyboard smash.",
			"Looking at {repo_name} is like watching a train wreck in slow motion, but with more merge conflicts.",
		},
	}
}

// languageBank returns the bank for lang, or the default bucket.
func (b Banks) languageBank(lang string) []string {
	if bank, ok := b.Language[lang]; ok && len(bank) > 0 {
		return bank
	}
	return b.Language[""]
}
