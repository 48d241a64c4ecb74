package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mindstash-io/mindstash/internal/domain"
)

// minTokenLen is the exclusive lower bound on token length for heuristic tags;
// shorter words are too generic to be useful.
const minTokenLen = 4

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// HeuristicTags derives up to three tags from title and content by word
// frequency. Tokens are counted in first-seen order and sorted with a stable
// sort, so ties keep their first occurrence order. When no token qualifies
// the fallbackType is returned as the only tag; an empty fallbackType yields
// no tags. Never fails and performs no I/O.
func HeuristicTags(title, content, fallbackType string) []string {
	text := strings.ToLower(title + " " + content)
	text = nonWordRe.ReplaceAllString(text, " ")

	type tokenCount struct {
		token string
		count int
	}

	var counts []tokenCount
	index := make(map[string]int)
	for _, token := range strings.Fields(text) {
		if len(token) <= minTokenLen {
			continue
		}
		if i, ok := index[token]; ok {
			counts[i].count++
		} else {
			index[token] = len(counts)
			counts = append(counts, tokenCount{token: token, count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	var tags []string
	for i := 0; i < len(counts) && i < domain.MaxTags; i++ {
		tags = append(tags, counts[i].token)
	}

	if len(tags) == 0 && fallbackType != "" {
		return []string{fallbackType}
	}
	return tags
}
