package textnorm

import "strings"

// lemmaExceptions maps irregular forms to their lemma. Words that map to
// themselves are protected from the suffix rules.
var lemmaExceptions = loadLemmas(lemmaData)

func loadLemmas(data string) map[string]string {
	lemmas := make(map[string]string)
	for _, line := range dataLines(data) {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		lemmas[fields[0]] = fields[1]
	}
	return lemmas
}

// Lemmatize reduces a lowercase token to its noun lemma.
// Every output is a fixed point: Lemmatize(Lemmatize(w)) == Lemmatize(w).
func Lemmatize(token string) string {
	if lemma, ok := lemmaExceptions[token]; ok {
		return lemma
	}
	lemma := applySuffixRules(token)
	if irregular, ok := lemmaExceptions[lemma]; ok {
		return irregular
	}
	return lemma
}

func applySuffixRules(token string) string {
	if len(token) <= 3 {
		return token
	}

	switch {
	case strings.HasSuffix(token, "ss"),
		strings.HasSuffix(token, "us"),
		strings.HasSuffix(token, "is"):
		return token
	case strings.HasSuffix(token, "ies") && len(token) > 4:
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "sses"):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "ches"),
		strings.HasSuffix(token, "shes"),
		strings.HasSuffix(token, "xes"):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "s"):
		return token[:len(token)-1]
	}
	return token
}
