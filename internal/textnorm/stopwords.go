package textnorm

import (
	"bufio"
	_ "embed"
	"strings"
)

//go:embed data/stopwords.txt
var stopwordData string

//go:embed data/lemmas.txt
var lemmaData string

// stopwords is the fixed English stopword set
var stopwords = loadWordSet(stopwordData)

// IsStopword reports whether a lowercase token is in the English stopword set
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// StopwordCount returns the size of the embedded stopword set
func StopwordCount() int {
	return len(stopwords)
}

func loadWordSet(data string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range dataLines(data) {
		set[line] = struct{}{}
	}
	return set
}

// dataLines returns the non-empty, non-comment lines of an embedded file
func dataLines(data string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
