package priority

// Rule assigns Score to every path matching Pattern.
type Rule struct {
	Pattern string `yaml:"pattern" toml:"pattern"`
	Score   int    `yaml:"score" toml:"score"`
}

// CompiledRule is a Rule with its matcher chosen once at load time.
type CompiledRule struct {
	Rule
	matcher Matcher
}

// Scorer computes file priorities.
type Scorer struct {
	rules   []CompiledRule
	recency Recency
	invalid []string
}

// NewScorer compiles rules and combines them with a recency signal.
// Pass NoRecency() when no version history is available.
func NewScorer(rules []Rule, recency Recency) *Scorer {
	s := &Scorer{
		rules:   make([]CompiledRule, 0, len(rules)),
		recency: recency,
	}
	for _, r := range rules {
		m, ok := NewMatcher(r.Pattern)
		if !ok {
			s.invalid = append(s.invalid, r.Pattern)
		}
		s.rules = append(s.rules, CompiledRule{Rule: r, matcher: m})
	}
	return s
}

// InvalidPatterns returns rule patterns that failed to compile and never match.
func (s *Scorer) InvalidPatterns() []string {
	return s.invalid
}

// StaticScore returns the highest score among rules matching path, or 0.
func (s *Scorer) StaticScore(path string) int {
	best := 0
	matched := false
	for _, r := range s.rules {
		if !r.matcher.Match(path) {
			continue
		}
		if !matched || r.Score > best {
			best = r.Score
			matched = true
		}
	}
	return best
}

// Score returns the final priority: static score plus recency boost.
// The sum is not clamped.
func (s *Scorer) Score(path string) int {
	return s.StaticScore(path) + s.recency.Boost(path)
}

// Apply sets the priority of every entry in place.
func (s *Scorer) Apply(entries []FileEntry) {
	for i := range entries {
		entries[i].Priority = s.Score(entries[i].Path)
	}
}
