// Package pagerange resolves human-entered page range expressions like
// "1-3, 5, 8-10" into validated page number sequences.
//
// Go Pattern: Pure functions are the easiest code to test and reuse.
// Resolve has no state, no side effects, and no error path — it's safe
// to call from any goroutine without coordination.
package pagerange

import (
	"sort"
	"strconv"
	"strings"
)

// Resolve parses a comma-separated page range expression and returns the
// matching page numbers as an ascending, duplicate-free slice.
//
// Each token is either a single page ("5") or an inclusive interval ("1-3").
// Tokens may carry surrounding whitespace. Interval bounds are clamped to
// [1, maxPages]; single pages outside that range are dropped.
//
// The function is deliberately lenient: malformed or out-of-range tokens are
// skipped silently rather than reported. Callers receiving an empty result
// should treat it as "no valid pages specified". This mirrors how users type
// ranges into a print dialog — a stray token shouldn't abort the whole job.
func Resolve(expression string, maxPages int) []int {
	seen := make(map[int]bool)

	for _, token := range strings.Split(expression, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if strings.Contains(token, "-") {
			// Interval token: must split into exactly two integer parts.
			// Anything else ("1-2-3", "a-5", "-") is dropped.
			parts := strings.SplitN(token, "-", 2)
			if len(parts) != 2 {
				continue
			}
			start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
			end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err1 != nil || err2 != nil {
				continue
			}

			// Clamp to document bounds. An interval that is empty after
			// clamping (start > end, or entirely outside the document)
			// contributes zero pages — not an error.
			if start < 1 {
				start = 1
			}
			if end > maxPages {
				end = maxPages
			}
			for p := start; p <= end; p++ {
				seen[p] = true
			}
			continue
		}

		// Single page token.
		p, err := strconv.Atoi(token)
		if err != nil || p < 1 || p > maxPages {
			continue
		}
		seen[p] = true
	}

	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// All returns every page of a document as a resolved sequence: [1..maxPages].
// Used by operations where an omitted range means "the whole document".
func All(maxPages int) []int {
	if maxPages < 1 {
		return []int{}
	}
	pages := make([]int, maxPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Selection converts a resolved page sequence into the string form that
// pdfcpu's page-selection APIs expect ("1", "2", "5", ...).
func Selection(pages []int) []string {
	sel := make([]string, len(pages))
	for i, p := range pages {
		sel[i] = strconv.Itoa(p)
	}
	return sel
}
