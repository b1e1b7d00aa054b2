package signals

import "regexp"

// framing is one rhetorical title pattern in the fixed taxonomy.
type framing struct {
	name    string
	pattern *regexp.Regexp
}

// The taxonomy is ordered so classification output is deterministic.
// curiosity_hook and listicle anchor to the start of the title, the
// personal_story pattern anchors its first alternative; everything else
// matches anywhere. All patterns are case-insensitive.
var framings = []framing{
	{"curiosity_hook", regexp.MustCompile(`(?i)^(why|how|what if|the truth about|the problem with|the real reason)`)},
	{"superlative", regexp.MustCompile(`(?i)\b(most|best|worst|biggest|smallest|fastest|deadliest|greatest)\b`)},
	{"listicle", regexp.MustCompile(`^\d+\s`)},
	{"versus", regexp.MustCompile(`(?i)\bvs\.?\b|\bversus\b`)},
	{"negative_hook", regexp.MustCompile(`(?i)\b(mistakes?|wrong|fail|never|dont|stop|worst|dead|killed|dangerous|problem)\b`)},
	{"mystery", regexp.MustCompile(`(?i)\b(mystery|secret|hidden|unknown|unexplained|impossible)\b`)},
	{"personal_story", regexp.MustCompile(`(?i)^i\s|\bi (built|made|tried|tested|spent|bought)\b`)},
	{"challenge", regexp.MustCompile(`(?i)\b(challenge|experiment|test|tried|attempt)\b`)},
	{"emotional", regexp.MustCompile(`(?i)\b(shocking|incredible|insane|amazing|beautiful|terrifying)\b`)},
	{"educational", regexp.MustCompile(`(?i)\b(explained|explanation|guide|tutorial|introduction|intro)\b`)},
}

// FramingLabels returns the full taxonomy in classification order.
func FramingLabels() []string {
	names := make([]string, len(framings))
	for i, f := range framings {
		names[i] = f.name
	}
	return names
}

// DetectFramings returns the framing labels matching a title. A title may
// carry zero, one, or several labels; they are not mutually exclusive.
func DetectFramings(title string) []string {
	var labels []string
	for _, f := range framings {
		if f.pattern.MatchString(title) {
			labels = append(labels, f.name)
		}
	}
	return labels
}
