package metadata

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// NameAndURL is an author or source: "Name", "https://url" or "Name <https://url>".
type NameAndURL struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

var nameAndURLRe = regexp.MustCompile(`^(\w+(?:\s\w+)*)\s+<([^>]+)>$`)

// ParseNameAndURL never fails: a value that is not a URL is a name.
func ParseNameAndURL(s string) *NameAndURL {
	if m := nameAndURLRe.FindStringSubmatch(s); m != nil {
		if u, ok := parseURL(strings.TrimSpace(m[2])); ok {
			return &NameAndURL{Name: m[1], URL: u}
		}
	}
	if u, ok := parseURL(s); ok {
		return &NameAndURL{URL: u}
	}
	return &NameAndURL{Name: s}
}

func parseURL(s string) (string, bool) {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return "", false
	}
	return u.String(), true
}

// RecipeTime is either a total time or prep and cook times, in minutes.
type RecipeTime struct {
	Total *int `json:"total,omitempty" yaml:"total,omitempty"`
	Prep  *int `json:"prep_time,omitempty" yaml:"prep_time,omitempty"`
	Cook  *int `json:"cook_time,omitempty" yaml:"cook_time,omitempty"`
}

// composed returns a time with the prep and cook parts of t, dropping a total.
func (t *RecipeTime) composed() *RecipeTime {
	if t == nil {
		return &RecipeTime{}
	}
	return &RecipeTime{Prep: t.Prep, Cook: t.Cook}
}

// Minutes is the total time, or the sum of prep and cook times.
func (t RecipeTime) Minutes() int {
	if t.Total != nil {
		return *t.Total
	}
	total := 0
	if t.Prep != nil {
		total += *t.Prep
	}
	if t.Cook != nil {
		total += *t.Cook
	}
	return total
}

var durationUnits = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
}

var durationPartRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-zA-Z]+)`)

// ParseMinutes parses "90", "1h 30m", "1 hour 30 minutes" or "1h30m" into
// whole minutes.
func ParseMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return int(n), nil
	}
	if d, err := time.ParseDuration(strings.ReplaceAll(s, " ", "")); err == nil {
		return roundMinutes(d), nil
	}

	parts := durationPartRe.FindAllStringSubmatchIndex(s, -1)
	if parts == nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	var total time.Duration
	last := 0
	for _, p := range parts {
		if strings.TrimSpace(s[last:p[0]]) != "" {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		n, err := strconv.ParseFloat(s[p[2]:p[3]], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", s, err)
		}
		unit, ok := durationUnits[strings.ToLower(s[p[4]:p[5]])]
		if !ok {
			return 0, fmt.Errorf("unknown time unit %q", s[p[4]:p[5]])
		}
		total += time.Duration(n * float64(unit))
		last = p[1]
	}
	if strings.TrimSpace(s[last:]) != "" {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return roundMinutes(total), nil
}

func roundMinutes(d time.Duration) int {
	return int(d.Round(time.Minute) / time.Minute)
}

var tagRe = regexp.MustCompile(`^\p{Ll}[\p{Ll}\d]*(-[\p{Ll}\d]+)*$`)

// IsValidTag reports whether tag is lowercase words joined by single
// hyphens, starting with a letter and at most 32 characters long.
func IsValidTag(tag string) bool {
	n := utf8.RuneCountInString(tag)
	return n >= 1 && n <= 32 && tagRe.MatchString(tag)
}

// IsEmoji reports whether s is made only of emoji code points, including
// modifiers and joiners.
func IsEmoji(s string) bool {
	if s == "" {
		return false
	}
	pictographs := 0
	for _, r := range s {
		switch {
		case r == 0x200D, r >= 0xFE00 && r <= 0xFE0F, r >= 0x1F3FB && r <= 0x1F3FF, r >= 0xE0020 && r <= 0xE007F:
		case r >= 0x1F1E6 && r <= 0x1F1FF, r >= 0x1F000 && r <= 0x1FAFF, r >= 0x2600 && r <= 0x27BF:
			pictographs++
		case unicode.Is(unicode.So, r):
			pictographs++
		default:
			return false
		}
	}
	return pictographs > 0
}
