// Package canon implements the text canonicalization pipeline (C1): the
// deterministic, pure string transforms every raw skill mention and job
// title passes through before it reaches the matcher.
package canon

import (
	"regexp"
	"strings"
)

// suffixWords are decorative words dropped wherever they appear as a whole
// word, e.g. "python programming" -> "python".
var suffixWords = map[string]bool{
	"programming": true,
	"language":    true,
	"framework":   true,
}

// versionFolds collapses a versioned spelling down to its base technology.
var versionFolds = map[string]string{
	"html5": "html",
	"css3":  "css",
}

var (
	separatorCollapse = regexp.MustCompile(`[_\-/]+`)
	whitespaceCollapse = regexp.MustCompile(`\s+`)
	tokenPattern       = regexp.MustCompile(`[a-z0-9+#.]+`)
)

// Canonicalize applies the full pipeline to a raw skill mention:
// lowercase, trim, drop periods, collapse separators to spaces, drop
// decorative suffix words, fold version suffixes, fold C# spellings, and
// collapse whitespace. It is idempotent: Canonicalize(Canonicalize(x)) ==
// Canonicalize(x).
func Canonicalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", "")
	s = separatorCollapse.ReplaceAllString(s, " ")
	s = foldCSharp(s)
	s = whitespaceCollapse.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	words := strings.Split(s, " ")
	filtered := words[:0:0]
	for _, w := range words {
		if w == "" || suffixWords[w] {
			continue
		}
		filtered = append(filtered, w)
	}
	s = strings.Join(filtered, " ")

	if folded, ok := versionFolds[s]; ok {
		s = folded
	}

	return s
}

// foldCSharp normalizes "c sharp" and "csharp" spellings to "c#" before
// suffix-word stripping and whitespace collapse run.
func foldCSharp(s string) string {
	s = strings.ReplaceAll(s, "c sharp", "c#")
	s = strings.ReplaceAll(s, "csharp", "c#")
	return s
}

// dotnetExpansions spells out .NET-family abbreviations for job-title
// canonicalization, where "asp.net" etc. should read as full words.
var dotnetExpansions = []struct {
	from string
	to   string
}{
	{"asp.net", "asp dot net"},
	{"asp dotnet", "asp dot net"},
	{".net", "dot net"},
	{"dotnet", "dot net"},
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)

// CanonicalizeJobTitle applies Canonicalize's pipeline plus .NET-family
// expansion and stripping of any remaining non-alphanumeric characters, for
// matching against ROLE_TITLE_SKILL_MAP and seniority-band rules.
func CanonicalizeJobTitle(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	for _, exp := range dotnetExpansions {
		s = strings.ReplaceAll(s, exp.from, exp.to)
	}
	s = Canonicalize(s)
	s = separatorCollapse.ReplaceAllString(s, " ")
	s = nonAlphanumeric.ReplaceAllString(s, " ")
	s = whitespaceCollapse.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// compositeSeparators are tried in order; each is a literal substring
// boundary, not a regex, so " and " doesn't also eat "android".
var compositeSeparators = []string{"/", "\\", ",", " & ", " and ", "+"}

// SplitComposite splits a raw mention like "HTML/CSS" into its components,
// dropping fragments shorter than 2 characters. A mention with no composite
// separator returns a single-element slice of the trimmed input.
func SplitComposite(raw string) []string {
	pieces := []string{raw}
	for _, sep := range compositeSeparators {
		var next []string
		for _, p := range pieces {
			next = append(next, strings.Split(p, sep)...)
		}
		pieces = next
	}

	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if len(p) >= 2 {
			out = append(out, p)
		}
	}
	return out
}

// Tokenize returns the set of word-like tokens in text, matching
// [a-z0-9+#.]+ against the lowercased input.
func Tokenize(text string) map[string]bool {
	lower := strings.ToLower(text)
	matches := tokenPattern.FindAllString(lower, -1)
	set := make(map[string]bool, len(matches))
	for _, m := range matches {
		set[m] = true
	}
	return set
}

// TokenizeSkill canonicalizes raw first, then tokenizes the result. Used by
// the matcher's rule tier to compare against a MasterSkill's token list.
func TokenizeSkill(raw string) map[string]bool {
	return Tokenize(Canonicalize(raw))
}
