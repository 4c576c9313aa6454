package matching

import (
	"strings"
	"unicode/utf8"
)

// Minimum run lengths, in runes, for ExtractKeywords.
const (
	minIdeographRun = 2
	minKatakanaRun  = 2
	minHiraganaRun  = 3
)

// Minimum token length, in runes, for ExtractQueryKeywords.
const minQueryToken = 2

type charClass int

const (
	classOther charClass = iota
	classIdeograph
	classKatakana
	classHiragana
)

func classify(r rune) charClass {
	switch {
	case r >= 0x4E00 && r <= 0x9FAF:
		return classIdeograph
	case r >= 0x30A0 && r <= 0x30FF:
		return classKatakana
	case r >= 0x3040 && r <= 0x309F:
		return classHiragana
	}
	return classOther
}

// ExtractKeywords is the precision extractor used by the mine checker. It
// emits maximal runs of ideographs (>= 2), katakana (>= 2) and hiragana (>= 3);
// shorter hiragana runs are particles and auxiliaries. The result holds each
// keyword once: ideograph runs first, then katakana, then hiragana.
func ExtractKeywords(text string) []string {
	runs := map[charClass][]string{}

	var (
		current charClass
		start   int
	)
	flush := func(end int) {
		if current != classOther {
			runs[current] = append(runs[current], text[start:end])
		}
	}
	for i, r := range text {
		c := classify(r)
		if c == current {
			continue
		}
		flush(i)
		current, start = c, i
	}
	flush(len(text))

	minLen := map[charClass]int{
		classIdeograph: minIdeographRun,
		classKatakana:  minKatakanaRun,
		classHiragana:  minHiraganaRun,
	}

	var out []string
	seen := make(map[string]struct{})
	for _, c := range []charClass{classIdeograph, classKatakana, classHiragana} {
		for _, run := range runs[c] {
			if utf8.RuneCountInString(run) < minLen[c] {
				continue
			}
			if _, ok := seen[run]; ok {
				continue
			}
			seen[run] = struct{}{}
			out = append(out, run)
		}
	}
	return out
}

// stopWords are dropped by ExtractQueryKeywords: particles, copulas,
// demonstratives, question words and generic relationship nouns.
var stopWords = map[string]struct{}{
	"は": {}, "が": {}, "を": {}, "に": {}, "の": {}, "で": {}, "と": {}, "も": {}, "や": {}, "か": {},
	"です": {}, "ます": {}, "だ": {}, "ある": {}, "いる": {}, "する": {}, "なる": {},
	"この": {}, "その": {}, "あの": {}, "どの": {}, "何": {}, "どう": {}, "なぜ": {},
	"彼女": {}, "パートナー": {}, "相手": {}, "好き": {}, "嫌い": {},
	"って": {}, "という": {}, "ということ": {}, "こと": {}, "もの": {},
	"なんだっけ": {}, "教えて": {}, "知りたい": {}, "ください": {},
}

func isQuerySeparator(r rune) bool {
	switch r {
	case '。', '、', '！', '？':
		return true
	}
	return isSpace(r)
}

// isSpace matches the JavaScript \s class, which includes U+3000 and U+FEFF.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}

// ExtractQueryKeywords is the recall-oriented extractor used for RAG
// retrieval. It splits on Japanese punctuation and whitespace, keeps tokens
// of at least two runes that are not stop words, and de-duplicates them in
// order of first appearance.
func ExtractQueryKeywords(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(text, isQuerySeparator) {
		if utf8.RuneCountInString(tok) < minQueryToken {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
