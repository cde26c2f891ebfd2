package schema

// RequirementPolicy decides which questions of a group count as required.
type RequirementPolicy string

const (
	// PolicyAllIfNoneRequired treats every question as required when none is
	// explicitly marked, so an unmarked section cannot score complete with no data.
	PolicyAllIfNoneRequired RequirementPolicy = "all_if_none_required"
	// PolicyExplicitOnly honours the required flags exactly.
	PolicyExplicitOnly RequirementPolicy = "explicit_only"
)

func (p RequirementPolicy) Normalize() RequirementPolicy {
	switch p {
	case PolicyExplicitOnly:
		return PolicyExplicitOnly
	default:
		return PolicyAllIfNoneRequired
	}
}

func (p RequirementPolicy) Valid() bool {
	return p == "" || p == PolicyAllIfNoneRequired || p == PolicyExplicitOnly
}

// Resolve returns, index-aligned with questions, whether each one is required.
func (p RequirementPolicy) Resolve(questions []Question) []bool {
	out := make([]bool, len(questions))
	explicit := CountRequired(questions)
	fallback := explicit == 0 && p.Normalize() == PolicyAllIfNoneRequired
	for i, q := range questions {
		out[i] = q.Required || fallback
	}
	return out
}

// CountRequired counts explicitly required questions.
func CountRequired(questions []Question) int {
	n := 0
	for _, q := range questions {
		if q.Required {
			n++
		}
	}
	return n
}
