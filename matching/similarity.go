package matching

import (
	"strings"
	"unicode/utf8"
)

const (
	scoreExact       = 100
	scoreContainment = 70
	scoreKeywordCap  = 80
	pointsPerMatch   = 20
)

// CalculateSimilarity scores candidate against query on a 0-100 scale,
// case-insensitively. The first rule that applies wins:
//
//  1. identical strings score 100
//  2. one string containing the other scores 70
//  3. otherwise keyword overlap: +2 per identical keyword pair, +1 per pair
//     where one keyword contains the other, +2 per candidate keyword found
//     verbatim in the query and not matched yet; 20 points each, capped at 80
func CalculateSimilarity(query, candidate string) int {
	s1 := strings.ToLower(query)
	s2 := strings.ToLower(candidate)

	if s1 == s2 {
		return scoreExact
	}
	if s1 != "" && s2 != "" && (strings.Contains(s1, s2) || strings.Contains(s2, s1)) {
		return scoreContainment
	}

	count := keywordMatchCount(s1, s2)
	if count == 0 {
		return 0
	}
	return min(scoreKeywordCap, count*pointsPerMatch)
}

func keywordMatchCount(s1, s2 string) int {
	k1s := ExtractKeywords(s1)
	k2s := ExtractKeywords(s2)

	count := 0
	matched := make(map[string]struct{})

	for _, k1 := range k1s {
		for _, k2 := range k2s {
			if k1 == k2 {
				count += 2
				matched[k1] = struct{}{}
				continue
			}
			l1, l2 := utf8.RuneCountInString(k1), utf8.RuneCountInString(k2)
			if l1 < 2 || l2 < 2 {
				continue
			}
			if strings.Contains(k1, k2) || strings.Contains(k2, k1) {
				count++
				shorter := k1
				if l1 > l2 {
					shorter = k2
				}
				matched[shorter] = struct{}{}
			}
		}
	}

	for _, k := range k2s {
		if _, ok := matched[k]; ok {
			continue
		}
		if strings.Contains(s1, k) {
			count += 2
			matched[k] = struct{}{}
		}
	}

	return count
}
