package model

// Analysis is the scoring result for one piece of content, either parsed from
// the oracle response or produced by the fallback defaults.
type Analysis struct {
	KnowledgeDensityScore float64  `json:"knowledge_density_score"`
	CredibilityScore      float64  `json:"credibility_score"`
	DistractionScore      float64  `json:"distraction_score"`
	Summary               string   `json:"summary"`
	Tags                  []string `json:"tags"`
	EvidenceLinks         []string `json:"evidence_links"`
}

// DefaultAnalysis is the mid-scale result used whenever scoring is
// unavailable or fails. The title stands in for the summary.
func DefaultAnalysis(title string) Analysis {
	return Analysis{
		KnowledgeDensityScore: 5.0,
		CredibilityScore:      5.0,
		DistractionScore:      5.0,
		Summary:               title,
	}
}

// Utility computes the cognitive utility score: knowledge plus credibility
// minus distraction, floored at zero.
func Utility(knowledge, credibility, distraction float64) float64 {
	u := knowledge + credibility - distraction
	if u < 0 {
		return 0
	}
	return u
}

// ClampScore bounds a raw score to the 0-10 scale.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
