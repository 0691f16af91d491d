package humanoid

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// ContextTags is a set of content classifications for a piece of text.
type ContextTags uint8

const (
	TagCode ContextTags = 1 << iota
	TagEmail
	TagFormal
	TagRepetitive
)

var tagNames = []struct {
	tag  ContextTags
	name string
}{
	{TagCode, "code"},
	{TagEmail, "email"},
	{TagFormal, "formal"},
	{TagRepetitive, "repetitive"},
}

// Has reports whether every tag in other is set.
func (t ContextTags) Has(other ContextTags) bool {
	return t&other == other
}

// Names lists the set tags in a stable order.
func (t ContextTags) Names() []string {
	names := []string{}
	for _, tn := range tagNames {
		if t.Has(tn.tag) {
			names = append(names, tn.name)
		}
	}
	return names
}

func (t ContextTags) String() string {
	if t == 0 {
		return "none"
	}
	return strings.Join(t.Names(), "|")
}

// MarshalText lets the tag set serialize as a readable string.
func (t ContextTags) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Modifiers is the cadence adjustment derived from a tag set.
type Modifiers struct {
	Speed     float64 `json:"speed"`
	ErrorRate float64 `json:"error_rate"`
	Pasteable bool    `json:"pasteable"`
}

// Modifiers composes the per-tag adjustments multiplicatively.
func (t ContextTags) Modifiers() Modifiers {
	m := Modifiers{Speed: 1.0, ErrorRate: 1.0}
	if t.Has(TagCode) {
		// Symbols slow the typist down, but code gets proofread as it goes.
		m.Speed *= 0.8
		m.ErrorRate *= 0.7
	}
	if t.Has(TagFormal) {
		m.Speed *= 0.9
		m.ErrorRate *= 0.8
	}
	if t.Has(TagRepetitive) {
		m.Speed *= 1.2
		m.Pasteable = true
	}
	if t.Has(TagEmail) {
		m.Pasteable = true
	}
	return m
}

var (
	codeOperators = []string{"{", "}", "[", "]", "()", "=>", "==", "!=", "&&", "||"}
	codeKeywords  = []string{
		"def", "class", "import", "from", "if", "for", "while", "return",
		"function", "const", "let", "var", "func", "package",
	}
	emailMarkers = []string{
		"dear", "hi", "hello", "sincerely", "best regards", "regards",
		"subject:", "from:", "to:",
	}
	formalWords = map[string]struct{}{
		"furthermore": {}, "therefore": {}, "consequently": {}, "moreover": {},
		"however": {}, "nevertheless": {}, "accordingly": {}, "thus": {},
	}

	domainSuffixRe = regexp.MustCompile(`\.(com|org|net|io|edu)\b`)
	wordRe         = regexp.MustCompile(`[a-z]+`)
	emailSpanRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	urlSpanRe      = regexp.MustCompile(`(?:https?://|www\.)[^\s<>"']+`)
)

const (
	repetitiveMinWords    = 5
	repetitiveUniqueRatio = 0.7
)

// Classify tags text by content. It is pure and never fails.
func Classify(text string) ContextTags {
	var tags ContextTags
	if looksLikeCode(text) {
		tags |= TagCode
	}
	lower := strings.ToLower(text)
	if looksLikeEmail(lower) {
		tags |= TagEmail
	}
	if looksFormal(lower) {
		tags |= TagFormal
	}
	if looksRepetitive(lower) {
		tags |= TagRepetitive
	}
	return tags
}

func looksLikeCode(text string) bool {
	for _, op := range codeOperators {
		if strings.Contains(text, op) {
			return true
		}
	}
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		first := strings.TrimRight(fields[0], ":(")
		for _, kw := range codeKeywords {
			if first == kw {
				return true
			}
		}
	}
	return false
}

func looksLikeEmail(lower string) bool {
	if !strings.Contains(lower, "@") {
		return false
	}
	if domainSuffixRe.MatchString(lower) {
		return true
	}
	words := wordSet(lower)
	for _, marker := range emailMarkers {
		if strings.HasSuffix(marker, ":") || strings.Contains(marker, " ") {
			if strings.Contains(lower, marker) {
				return true
			}
			continue
		}
		if _, ok := words[marker]; ok {
			return true
		}
	}
	return false
}

func looksFormal(lower string) bool {
	for w := range wordSet(lower) {
		if _, ok := formalWords[w]; ok {
			return true
		}
	}
	return false
}

func looksRepetitive(lower string) bool {
	words := strings.Fields(lower)
	if len(words) < repetitiveMinWords {
		return false
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique))/float64(len(words)) < repetitiveUniqueRatio
}

func wordSet(lower string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(lower, -1) {
		set[w] = struct{}{}
	}
	return set
}

// Span is a half-open range of rune indices.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// PasteableSpans finds email addresses and URLs, the runs a person would
// rather paste than type. Spans are rune-indexed, sorted and disjoint.
func PasteableSpans(text string) []Span {
	var spans []Span
	for _, re := range []*regexp.Regexp{emailSpanRe, urlSpanRe} {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			match := strings.TrimRight(text[loc[0]:loc[1]], ".,;:!?)")
			if match == "" {
				continue
			}
			start := utf8.RuneCountInString(text[:loc[0]])
			spans = append(spans, Span{Start: start, End: start + utf8.RuneCountInString(match)})
		}
	}
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
