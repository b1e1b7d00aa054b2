// Package signals extracts deterministic text signals from video titles
// and captions: tokens, keywords, sentiment cues, hook strength, and
// rhetorical framing patterns. Everything here is pure and stateless.
package signals

import (
	"regexp"
	"strings"
)

var (
	tokenRe  = regexp.MustCompile(`[A-Za-z0-9']+`)
	numberRe = regexp.MustCompile(`\d+`)
	punctRe  = regexp.MustCompile(`[!-/:-@\[-` + "`" + `{-~]`)
)

var stopwords = func() map[string]struct{} {
	words := strings.Fields(
		"a an the is are was were be been being have has had do does did will would " +
			"shall should may might can could of in to for on with at by from as into " +
			"through during before after above below between out off over under again " +
			"further then once here there when where why how all both each few more most " +
			"other some such no nor not only own same so than too very and but or if " +
			"about up its it he she they them their this that these those i me my we our " +
			"you your what which who whom video videos channel channels")
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

var positiveWords = map[string]struct{}{
	"win": {}, "boost": {}, "easy": {}, "secret": {}, "proven": {},
	"grow": {}, "success": {}, "best": {}, "powerful": {}, "fast": {},
}

var negativeWords = map[string]struct{}{
	"fail": {}, "stop": {}, "avoid": {}, "worst": {}, "don't": {},
	"hard": {}, "slow": {}, "boring": {}, "stuck": {},
}

var hookKeywords = []string{
	"what", "why", "how", "you", "number", "secret", "won't believe", "in 60 seconds", "?",
}

// Normalize lowercases, strips ASCII punctuation, and collapses whitespace.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = punctRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// Tokenize splits text into lowercase word tokens.
func Tokenize(text string) []string {
	raw := tokenRe.FindAllString(text, -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		tokens = append(tokens, strings.ToLower(t))
	}
	return tokens
}

// Keywords extracts keywords: normalized tokens with stopwords removed
// and a minimum length of 3.
func Keywords(text string) []string {
	var out []string
	for _, t := range strings.Fields(Normalize(text)) {
		if _, stop := stopwords[t]; stop {
			continue
		}
		if len(t) < 3 {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sentiment holds positive/negative cue counts for a token list.
type Sentiment struct {
	Positive int
	Negative int
}

// CountSentiment counts positive and negative cue words among tokens.
func CountSentiment(tokens []string) Sentiment {
	var s Sentiment
	for _, t := range tokens {
		if _, ok := positiveWords[t]; ok {
			s.Positive++
		}
		if _, ok := negativeWords[t]; ok {
			s.Negative++
		}
	}
	return s
}

// ContainsNumber reports whether text contains a digit sequence.
func ContainsNumber(text string) bool {
	return numberRe.MatchString(text)
}

// StartsWithQuestionWord reports whether text opens with "how" or "why".
func StartsWithQuestionWord(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(lowered, "how") || strings.HasPrefix(lowered, "why")
}

// HookScore rates how strongly text opens like a retention hook:
// +1 per hook keyword, +0.5 for a question mark, +0.5 for a number.
func HookScore(text string) float64 {
	lowered := strings.ToLower(text)
	score := 0.0
	for _, kw := range hookKeywords {
		if strings.Contains(lowered, kw) {
			score++
		}
	}
	if strings.Contains(lowered, "?") {
		score += 0.5
	}
	if ContainsNumber(lowered) {
		score += 0.5
	}
	return score
}

// FirstChars returns the leading runes of text, trimmed, capped at limit.
func FirstChars(text string, limit int) string {
	trimmed := strings.TrimSpace(text)
	if limit <= 0 || len(trimmed) <= limit {
		return trimmed
	}
	return trimmed[:limit]
}
