package content

import (
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Tables holds the keyword/pattern tables driving the classifier. The
// defaults are compiled in; a TOML file can override any list without a
// code change.
type Tables struct {
	EducationalStrong   []string
	Educational         []string
	EducationalPatterns []*regexp.Regexp

	HighStrong   []string
	HighMid      []string
	High         []string
	HighPatterns []*regexp.Regexp

	Medium []string

	DistractingDomains []string
}

// DefaultTables returns the built-in keyword tables.
func DefaultTables() *Tables {
	return &Tables{
		EducationalStrong: []string{
			"tutorial", "course", "lecture", "explained", "learn", "education",
		},
		Educational: []string{
			"documentation", "research", "study", "academic", "lesson",
			"training", "programming", "algorithm", "science", "math",
			"wikipedia", "stack overflow", "stackoverflow", "github",
			"coursera", "khan academy", "udemy", "textbook",
		},
		EducationalPatterns: compilePatterns([]string{
			`how to .*(program|programming|math|science|code)`,
			`(intro|introduction) to [a-z]+`,
			`(chapter|unit) \d+`,
		}),
		HighStrong: []string{
			"funny", "memes", "viral", "prank", "fail", "comedy", "hilarious",
		},
		HighMid: []string{
			"music video", "gaming", "entertainment", "gossip",
		},
		High: []string{
			"celebrity", "compilation", "reaction", "trailer", "vlog",
			"twitch", "tiktok", "stream highlights", "unboxing",
		},
		HighPatterns: compilePatterns([]string{
			`top \d+ `,
			`(funny|epic) (moments|fails)`,
			`reacts? to`,
			`(official )?music video`,
		}),
		Medium: []string{
			"facebook", "instagram", "twitter", "reddit", "snapchat",
			"whatsapp", "telegram", "discord", "messenger", "pinterest",
			"shopping", "amazon", "ebay", "flipkart", "news feed",
		},
		DistractingDomains: []string{
			"youtube.com", "facebook.com", "instagram.com", "twitter.com",
			"netflix.com", "reddit.com", "tiktok.com",
		},
	}
}

// tablesFile is the TOML override schema. Any present, non-empty list
// replaces the corresponding default.
type tablesFile struct {
	Educational struct {
		Strong   []string `toml:"strong"`
		Keywords []string `toml:"keywords"`
		Patterns []string `toml:"patterns"`
	} `toml:"educational"`
	HighDistraction struct {
		Strong   []string `toml:"strong"`
		Mid      []string `toml:"mid"`
		Keywords []string `toml:"keywords"`
		Patterns []string `toml:"patterns"`
	} `toml:"high_distraction"`
	MediumDistraction struct {
		Keywords []string `toml:"keywords"`
	} `toml:"medium_distraction"`
	Domains struct {
		Distracting []string `toml:"distracting"`
	} `toml:"domains"`
}

// LoadTables returns the default tables merged with the TOML override at
// path. An empty path yields the defaults unchanged.
func LoadTables(path string) (*Tables, error) {
	t := DefaultTables()
	if path == "" {
		return t, nil
	}

	var f tablesFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("load keyword tables %s: %w", path, err)
	}

	if len(f.Educational.Strong) > 0 {
		t.EducationalStrong = f.Educational.Strong
	}
	if len(f.Educational.Keywords) > 0 {
		t.Educational = f.Educational.Keywords
	}
	if len(f.Educational.Patterns) > 0 {
		patterns, err := compilePatternsStrict(f.Educational.Patterns)
		if err != nil {
			return nil, err
		}
		t.EducationalPatterns = patterns
	}
	if len(f.HighDistraction.Strong) > 0 {
		t.HighStrong = f.HighDistraction.Strong
	}
	if len(f.HighDistraction.Mid) > 0 {
		t.HighMid = f.HighDistraction.Mid
	}
	if len(f.HighDistraction.Keywords) > 0 {
		t.High = f.HighDistraction.Keywords
	}
	if len(f.HighDistraction.Patterns) > 0 {
		patterns, err := compilePatternsStrict(f.HighDistraction.Patterns)
		if err != nil {
			return nil, err
		}
		t.HighPatterns = patterns
	}
	if len(f.MediumDistraction.Keywords) > 0 {
		t.Medium = f.MediumDistraction.Keywords
	}
	if len(f.Domains.Distracting) > 0 {
		t.DistractingDomains = f.Domains.Distracting
	}
	return t, nil
}

func compilePatterns(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

func compilePatternsStrict(exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		re, err := regexp.Compile(`(?i)` + e)
		if err != nil {
			return nil, fmt.Errorf("keyword table pattern %q: %w", e, err)
		}
		out = append(out, re)
	}
	return out, nil
}
