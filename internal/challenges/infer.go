package challenges

import "strings"

// challengePatterns maps keyword sets to challenge type categories.
// Order matters: earlier entries win when keywords overlap.
var challengePatterns = []struct {
	keywords []string
	category string
}{
	{[]string{"dark", "darkness", "night"}, "fear of dark"},
	{[]string{"school", "kindergarten", "classroom", "teacher"}, "starting school"},
	{[]string{"sibling", "baby", "brother", "sister"}, "new sibling"},
	{[]string{"move", "moving", "new house", "new home"}, "moving to new house"},
	{[]string{"friend", "friendship", "shy"}, "making friends"},
	{[]string{"separation", "leaving", "daycare"}, "separation anxiety"},
	{[]string{"monster", "scary", "nightmare", "afraid"}, "fear and anxiety"},
	{[]string{"share", "sharing", "toy", "selfish"}, "learning to share"},
	{[]string{"potty", "toilet", "bathroom", "diaper"}, "potty training"},
	{[]string{"angry", "tantrum", "emotions", "feelings"}, "managing emotions"},
}

// InferType derives a challenge category from free-text details using
// keyword matching. When no pattern matches, it falls back to the first
// few words of the description.
func InferType(details string) string {
	lower := strings.ToLower(details)

	for _, p := range challengePatterns {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				return p.category
			}
		}
	}

	words := strings.Fields(details)
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ")
}
