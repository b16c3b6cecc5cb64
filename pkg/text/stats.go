package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WordsPerMinute is the reading speed behind Stats.ReadingMinutes.
const WordsPerMinute = 200

// Stats summarizes a piece of text.
type Stats struct {
	Characters         int `json:"characters"`
	CharactersNoSpaces int `json:"characters_no_spaces"`
	Bytes              int `json:"bytes"`
	Words              int `json:"words"`
	Lines              int `json:"lines"`
	Sentences          int `json:"sentences"`
	Paragraphs         int `json:"paragraphs"`
	ReadingMinutes     int `json:"reading_minutes"`
}

// Analyze counts characters (runes), words, lines, sentences and paragraphs in s.
// A trailing newline does not start a new line.
func Analyze(s string) Stats {
	st := Stats{
		Characters: utf8.RuneCountInString(s),
		Bytes:      len(s),
		Words:      len(strings.Fields(s)),
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			st.CharactersNoSpaces++
		}
	}
	if s != "" {
		st.Lines = strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
	}
	st.Sentences = countSentences(s)
	st.Paragraphs = countParagraphs(s)
	st.ReadingMinutes = (st.Words + WordsPerMinute - 1) / WordsPerMinute
	return st
}

// countSentences counts runs of text ended by '.', '!' or '?', plus a final unterminated run.
func countSentences(s string) int {
	n := 0
	pending := false
	for _, r := range s {
		switch {
		case r == '.' || r == '!' || r == '?':
			if pending {
				n++
				pending = false
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			pending = true
		}
	}
	if pending {
		n++
	}
	return n
}

func countParagraphs(s string) int {
	n := 0
	inPara := false
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			inPara = false
			continue
		}
		if !inPara {
			n++
			inPara = true
		}
	}
	return n
}
