package contentfilter

import (
	"regexp"
	"strings"
	"unicode"
)

// Every predicate here is a pure function of its input string. The same
// classifier feeds two severities: Check gates contact-style submissions
// outright, while the individual predicates are soft signals attached to
// reviews for moderator attention.

const (
	IssueSpam          = "spam_pattern"
	IssueInappropriate = "inappropriate_language"
	IssueShouting      = "excessive_capitalization"
	IssueRepetition    = "repeated_content"
)

type Result struct {
	IsValid bool
	Issues  []string
}

var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)free\s+money`),
	regexp.MustCompile(`(?i)click\s+here`),
	regexp.MustCompile(`(?i)buy\s+now`),
	regexp.MustCompile(`(?i)limited\s+(time\s+)?offer`),
	regexp.MustCompile(`(?i)work\s+from\s+home`),
	regexp.MustCompile(`(?i)100%\s+(free|guaranteed)`),
	regexp.MustCompile(`(?i)earn\s+\$?\d+`),
	regexp.MustCompile(`(?i)(visit|check\s+out)\s+(my|our)\s+(site|website|page|channel)`),
	regexp.MustCompile(`(?i)(telegram|whatsapp)\s*[:@]`),
}

var urlPattern = regexp.MustCompile(`(?i)https?://\S+`)

var inappropriateWords = []string{
	"asshole", "bastard", "bitch", "cunt", "dick", "fuck",
	"moron", "shit", "slut", "whore",
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}']+`)

var disposableDomains = map[string]struct{}{
	"10minutemail.com":  {},
	"dispostable.com":   {},
	"fakeinbox.com":     {},
	"getnada.com":       {},
	"guerrillamail.com": {},
	"maildrop.cc":       {},
	"mailinator.com":    {},
	"mintemail.com":     {},
	"sharklasers.com":   {},
	"temp-mail.org":     {},
	"tempmail.com":      {},
	"throwawaymail.com": {},
	"trashmail.com":     {},
	"yopmail.com":       {},
}

// Check classifies free text. Only spam signatures and inappropriate terms
// invalidate it; shouting and repetition are reported among the issues but
// do not flip IsValid, so they stay advisory for review submissions.
func Check(text string) Result {
	res := Result{IsValid: true}

	if IsSpam(text) {
		res.IsValid = false
		res.Issues = append(res.Issues, IssueSpam)
	}
	if IsInappropriate(text) {
		res.IsValid = false
		res.Issues = append(res.Issues, IssueInappropriate)
	}
	if IsShouting(text) {
		res.Issues = append(res.Issues, IssueShouting)
	}
	if IsRepetitive(text) {
		res.Issues = append(res.Issues, IssueRepetition)
	}

	return res
}

func IsSpam(text string) bool {
	for _, p := range spamPatterns {
		if p.MatchString(text) {
			return true
		}
	}

	// a single link is tolerated, a pile of them is not
	return len(urlPattern.FindAllStringIndex(text, 3)) > 2
}

func IsInappropriate(text string) bool {
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		for _, bad := range inappropriateWords {
			if w == bad {
				return true
			}
		}
	}
	return false
}

func IsShouting(text string) bool {
	letters, upper := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters < 5 {
		return false
	}
	return float64(upper)/float64(letters) > 0.7
}

func IsRepetitive(text string) bool {
	// long single-character runs ("sooooooo gooood")
	run, prev := 0, rune(0)
	for _, r := range text {
		if r == prev {
			run++
			if run >= 6 {
				return true
			}
		} else {
			run = 1
			prev = r
		}
	}

	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	// the same word three or more times in a row
	streak := 1
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			streak++
			if streak >= 3 {
				return true
			}
		} else {
			streak = 1
		}
	}

	// barely any distinct vocabulary
	if len(words) >= 6 {
		uniq := map[string]struct{}{}
		for _, w := range words {
			uniq[w] = struct{}{}
		}
		if float64(len(uniq))/float64(len(words)) < 0.4 {
			return true
		}
	}

	return false
}

func IsDisposableEmail(address string) bool {
	at := strings.LastIndexByte(address, '@')
	if at < 0 || at == len(address)-1 {
		return false
	}
	domain := strings.ToLower(address[at+1:])

	if _, ok := disposableDomains[domain]; ok {
		return true
	}
	for known := range disposableDomains {
		if strings.HasSuffix(domain, "."+known) {
			return true
		}
	}
	return false
}
