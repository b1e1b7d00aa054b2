package signals

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	got := Normalize("  Why I Quit My Job!? (The TRUTH)  ")
	want := "why i quit my job the truth"
	if got != want {
		t.Errorf("Normalize: got %q, want %q", got, want)
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords("How The Best Guitar Players Practice Their Channel")
	// "how", "the", "their", "channel" are stopwords; short tokens dropped.
	want := []string{"best", "guitar", "players", "practice"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords: got %v, want %v", got, want)
	}
	if kws := Keywords("up at it"); len(kws) != 0 {
		t.Errorf("expected all tokens filtered, got %v", kws)
	}
}

func TestTokenizeKeepsApostrophes(t *testing.T) {
	got := Tokenize("Don't Stop Believin' 101")
	want := []string{"don't", "stop", "believin'", "101"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize: got %v, want %v", got, want)
	}
}

func TestCountSentiment(t *testing.T) {
	s := CountSentiment([]string{"easy", "win", "fail", "guitar"})
	if s.Positive != 2 || s.Negative != 1 {
		t.Errorf("got %+v, want 2 positive / 1 negative", s)
	}
}

func TestHookScore(t *testing.T) {
	if got := HookScore("a calm afternoon"); got != 0 {
		t.Errorf("expected 0 hook score, got %v", got)
	}
	// "why" (+1), "you" (+1), "?" keyword (+1) and question bonus (+0.5).
	if got := HookScore("Why do you care?"); got != 3.5 {
		t.Errorf("expected 3.5, got %v", got)
	}
	if got := HookScore("10 tips"); got != 0.5 {
		t.Errorf("number bonus: expected 0.5, got %v", got)
	}
}

func TestContainsNumber(t *testing.T) {
	if !ContainsNumber("top 10 riffs") {
		t.Error("expected number detected")
	}
	if ContainsNumber("no digits here") {
		t.Error("expected no number")
	}
}

func TestStartsWithQuestionWord(t *testing.T) {
	if !StartsWithQuestionWord("  How to tune a guitar") {
		t.Error("expected how-prefix detected")
	}
	if !StartsWithQuestionWord("WHY this works") {
		t.Error("expected why-prefix detected")
	}
	if StartsWithQuestionWord("Showcase of amps") {
		t.Error("expected no match for showcase")
	}
}

func TestDetectFramingsListicleNegative(t *testing.T) {
	got := DetectFramings("10 Mistakes That Killed My Channel")
	want := []string{"listicle", "negative_hook"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDetectFramingsMultipleAndNone(t *testing.T) {
	got := DetectFramings("Why the Best Guitarists Never Practice Scales")
	want := []string{"curiosity_hook", "superlative", "negative_hook"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if labels := DetectFramings("A Quiet Walk Around Kyoto"); len(labels) != 0 {
		t.Errorf("expected no framings, got %v", labels)
	}
}

func TestDetectFramingsDeterministic(t *testing.T) {
	title := "I Tried the Fastest Guitar Challenge vs My Brother"
	first := DetectFramings(title)
	for range 10 {
		if got := DetectFramings(title); !reflect.DeepEqual(got, first) {
			t.Fatalf("classification not deterministic: %v vs %v", got, first)
		}
	}

	taxonomy := make(map[string]struct{})
	for _, name := range FramingLabels() {
		taxonomy[name] = struct{}{}
	}
	for _, label := range first {
		if _, ok := taxonomy[label]; !ok {
			t.Errorf("label %q outside taxonomy", label)
		}
	}
}

func TestFramingAnchoring(t *testing.T) {
	// "listicle" requires the digit at the start.
	if labels := DetectFramings("My Top 5 Pedals"); contains(labels, "listicle") {
		t.Errorf("listicle should anchor to start, got %v", labels)
	}
	// "curiosity_hook" requires the hook phrase at the start.
	if labels := DetectFramings("Here is how it works"); contains(labels, "curiosity_hook") {
		t.Errorf("curiosity_hook should anchor to start, got %v", labels)
	}
	// "versus" matches anywhere.
	if labels := DetectFramings("Tube amps vs. solid state"); !contains(labels, "versus") {
		t.Errorf("expected versus, got %v", labels)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
