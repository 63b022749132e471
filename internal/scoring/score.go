// Package scoring computes a keyword overlap score between a resume and a job
// description.
package scoring

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// MinKeywordLength is the shortest token counted as a keyword.
const MinKeywordLength = 3

// DefaultMissingShown is how many missing keywords front ends list.
const DefaultMissingShown = 20

// Result is the outcome of Score.
type Result struct {
	Percentage int      `json:"percentage"`
	Matched    []string `json:"matched"`
	Missing    []string `json:"missing"`
	Total      int      `json:"total"`
}

// stopWords are generic posting words that say nothing about a candidate.
var stopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "join": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"was": true, "were": true, "been": true, "each": true, "new": true,
	"use": true, "using": true, "used": true, "well": true, "high": true,
	"good": true, "able": true, "get": true, "set": true, "such": true,
	"looking": true, "experience": true, "years": true, "strong": true,
	"skills": true, "knowledge": true, "ability": true, "must": true,
	"plus": true, "including": true, "other": true, "any": true,
	"requirements": true, "responsibilities": true, "preferred": true,
	"required": true, "candidate": true, "seeking": true, "ideal": true,
}

// Keywords returns the distinct keywords of a job description in sorted
// order: lower-cased letter runs of at least MinKeywordLength letters that are
// not stop words.
func Keywords(text string) []string {
	seen := map[string]bool{}
	var word strings.Builder
	flush := func() {
		w := word.String()
		word.Reset()
		if len([]rune(w)) >= MinKeywordLength && !stopWords[w] {
			seen[w] = true
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Score matches every job description keyword against the raw lower-cased
// resume text by substring containment.
func Score(resumeText, jobDescriptionText string) Result {
	resume := strings.ToLower(resumeText)
	keywords := Keywords(jobDescriptionText)

	res := Result{Matched: []string{}, Missing: []string{}, Total: len(keywords)}
	for _, kw := range keywords {
		if strings.Contains(resume, kw) {
			res.Matched = append(res.Matched, kw)
		} else {
			res.Missing = append(res.Missing, kw)
		}
	}

	total := res.Total
	if total < 1 {
		total = 1
	}
	res.Percentage = int(math.Round(float64(len(res.Matched)) / float64(total) * 100))
	return res
}

// TopMissing returns at most n missing keywords.
func (r Result) TopMissing(n int) []string {
	if n < 0 || n >= len(r.Missing) {
		return r.Missing
	}
	return r.Missing[:n]
}
