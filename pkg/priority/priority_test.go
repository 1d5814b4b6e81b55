package priority

import (
	"math/rand"
	"testing"
)

func TestNewMatcher(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
		valid   bool
	}{
		{"substring hit", "src", "pkg/src/main.go", true, true},
		{"substring miss", "docs", "pkg/src/main.go", false, true},
		{"anchored regexp hit", "^low/", "low/a.txt", true, true},
		{"anchored regexp miss", "^low/", "x/low/a.txt", false, true},
		{"suffix regexp", `\.go$`, "cmd/main.go", true, true},
		{"invalid regexp never matches", "(unclosed", "(unclosed", false, false},
		{"literal dot", "README.md", "docs/README.md", true, true},
		{"dot also matches as expression", "README.md", "READMExmd", true, true},
		{"literal brackets", "pages/[id]", "pages/[id].tsx", true, true},
		{"brackets miss unrelated path", "pages/[id]", "pages/about.tsx", false, true},
		{"literal plus", "lib+x/", "src/lib+x/a.h", true, true},
		{"anchored dot dir skips lookalike", `(^|/)\.git/`, "legit/main.go", false, true},
		{"anchored dot dir hit", `(^|/)\.git/`, "sub/.git/config", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := NewMatcher(tt.pattern)
			if ok != tt.valid {
				t.Errorf("NewMatcher(%q) ok = %v, want %v", tt.pattern, ok, tt.valid)
			}
			if got := m.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestStaticScore(t *testing.T) {
	rules := []Rule{
		{Pattern: "^src/", Score: 100},
		{Pattern: "main", Score: 300},
		{Pattern: "test", Score: 5},
	}
	s := NewScorer(rules, NoRecency())

	tests := []struct {
		path string
		want int
	}{
		{"src/lib.go", 100},
		{"src/main.go", 300},
		{"docs/readme.md", 0},
		{"test/helper.go", 5},
	}
	for _, tt := range tests {
		if got := s.StaticScore(tt.path); got != tt.want {
			t.Errorf("StaticScore(%q) = %d, want %d", tt.path, got, tt.want)
		}
	}
}

func TestStaticScoreOrderIndependent(t *testing.T) {
	rules := []Rule{
		{Pattern: "^a/", Score: 10},
		{Pattern: "b", Score: 700},
		{Pattern: `\.txt$`, Score: 42},
		{Pattern: "a", Score: 3},
		{Pattern: "[", Score: 999},
	}
	paths := []string{"a/b.txt", "a/x.go", "c/b.md", "z.txt", "nothing"}

	base := NewScorer(rules, NoRecency())
	want := make(map[string]int)
	for _, p := range paths {
		want[p] = base.StaticScore(p)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]Rule(nil), rules...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		s := NewScorer(shuffled, NoRecency())
		for _, p := range paths {
			if got := s.StaticScore(p); got != want[p] {
				t.Fatalf("shuffle %d: StaticScore(%q) = %d, want %d", i, p, got, want[p])
			}
		}
	}
}

func TestStaticScoreLiteralWithMetacharacters(t *testing.T) {
	s := NewScorer([]Rule{{Pattern: "pages/[id]", Score: 500}}, NoRecency())
	if got := s.StaticScore("pages/[id].tsx"); got != 500 {
		t.Errorf("StaticScore(pages/[id].tsx) = %d, want 500", got)
	}
	if got := s.StaticScore("pages/i.tsx"); got != 500 {
		t.Errorf("StaticScore(pages/i.tsx) = %d, want 500 from the expression", got)
	}
	if got := s.StaticScore("pages/about.tsx"); got != 0 {
		t.Errorf("StaticScore(pages/about.tsx) = %d, want 0", got)
	}
}

func TestInvalidPatterns(t *testing.T) {
	s := NewScorer([]Rule{{Pattern: "ok", Score: 1}, {Pattern: "*bad", Score: 2}}, NoRecency())
	invalid := s.InvalidPatterns()
	if len(invalid) != 1 || invalid[0] != "*bad" {
		t.Errorf("InvalidPatterns() = %v, want [*bad]", invalid)
	}
	if got := s.StaticScore("*bad"); got != 0 {
		t.Errorf("StaticScore = %d, want 0 for invalid pattern", got)
	}
}

func TestRankRecencySingle(t *testing.T) {
	r := RankRecency(RecencyMap{"only.go": 1700000000}, DefaultMaxBoost)
	if !r.Active() {
		t.Error("Active() = false, want true for non-empty history")
	}
	if got := r.Boost("only.go"); got != 0 {
		t.Errorf("Boost = %d, want 0", got)
	}
}

func TestRankRecencyEmpty(t *testing.T) {
	r := RankRecency(RecencyMap{}, DefaultMaxBoost)
	if r.Active() {
		t.Error("Active() = true, want false for empty history")
	}
	if got := r.Boost("x"); got != 0 {
		t.Errorf("Boost = %d, want 0", got)
	}
}

func TestRankRecencyTwoPaths(t *testing.T) {
	for _, times := range []RecencyMap{
		{"old.go": 1, "new.go": 2},
		{"old.go": 1000000000, "new.go": 1900000000},
		{"old.go": 0, "new.go": 18446744073709551615},
	} {
		r := RankRecency(times, DefaultMaxBoost)
		if got := r.Boost("old.go"); got != 0 {
			t.Errorf("old boost = %d, want 0", got)
		}
		if got := r.Boost("new.go"); got != DefaultMaxBoost {
			t.Errorf("new boost = %d, want %d", got, DefaultMaxBoost)
		}
	}
}

func TestRankRecencyLinear(t *testing.T) {
	r := RankRecency(RecencyMap{
		"a": 10,
		"b": 20,
		"c": 9000,
		"d": 9001,
	}, DefaultMaxBoost)

	want := map[string]int{"a": 0, "b": 17, "c": 33, "d": 50}
	for p, w := range want {
		if got := r.Boost(p); got != w {
			t.Errorf("Boost(%s) = %d, want %d", p, got, w)
		}
	}
	if got := r.Boost("unknown"); got != 0 {
		t.Errorf("Boost(unknown) = %d, want 0", got)
	}
}

func TestScoreAddsRecencyWithoutClamp(t *testing.T) {
	rec := RankRecency(RecencyMap{"old.go": 1, "hot.go": 2}, DefaultMaxBoost)
	s := NewScorer([]Rule{{Pattern: "hot", Score: 1000}}, rec)
	if got := s.Score("hot.go"); got != 1050 {
		t.Errorf("Score(hot.go) = %d, want 1050", got)
	}
	if got := s.Score("untracked.go"); got != 0 {
		t.Errorf("Score(untracked.go) = %d, want 0", got)
	}
}

func TestOrderStable(t *testing.T) {
	entries := []FileEntry{
		{Path: "c", Priority: 5},
		{Path: "a", Priority: 1},
		{Path: "d", Priority: 5},
		{Path: "b", Priority: 1},
		{Path: "e", Priority: 0},
	}
	Order(entries)

	want := []string{"e", "a", "b", "c", "d"}
	for i, w := range want {
		if entries[i].Path != w {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].Path, w)
		}
	}
}

func TestMatchingFileOrdersLast(t *testing.T) {
	entries := []FileEntry{{Path: "foo.txt"}, {Path: "bar.txt"}}
	NewScorer([]Rule{{Pattern: "foo", Score: 5}}, NoRecency()).Apply(entries)
	Order(entries)
	if entries[len(entries)-1].Path != "foo.txt" {
		t.Errorf("last = %s, want foo.txt", entries[len(entries)-1].Path)
	}

	entries = []FileEntry{{Path: "foo.txt"}, {Path: "bar.txt"}}
	NewScorer([]Rule{{Pattern: "bar", Score: 5}}, NoRecency()).Apply(entries)
	Order(entries)
	if entries[len(entries)-1].Path != "bar.txt" {
		t.Errorf("last = %s, want bar.txt", entries[len(entries)-1].Path)
	}
}
