package rag

// Confidence label thresholds. Labels are informational; the numeric confidence
// is authoritative for thresholding against TenantConfig.ConfidenceThreshold.
const (
	labelHighThreshold   = 0.8
	labelMediumThreshold = 0.6

	// Rank-derived confidence: how deep the best candidate sits in the fused ranking.
	rankHighThreshold   = 3
	rankMediumThreshold = 10
	rankHighScore       = 0.9
	rankMediumScore     = 0.7
	rankLowScore        = 0.4

	// Blend weights for the similarity and rank signals. Weighted so that both
	// signals worsening always lowers the result (monotonicity).
	similarityWeight = 0.7
	rankWeight       = 0.3
)

// ConfidenceScorer maps retrieval signals into a bounded confidence value and a
// qualitative label.
type ConfidenceScorer struct{}

// NewConfidenceScorer creates a ConfidenceScorer.
func NewConfidenceScorer() *ConfidenceScorer {
	return &ConfidenceScorer{}
}

// Score derives the overall confidence from the best candidate's raw vector
// similarity and fused rank. With no candidates the confidence is 0 and the
// label "low". The result is always in [0,1].
func (s *ConfidenceScorer) Score(candidates []Candidate) (float64, string) {
	if len(candidates) == 0 {
		return 0, "low"
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.FusedRank < best.FusedRank {
			best = c
		}
	}

	confidence := similarityWeight*similarityConfidence(best.VectorScore) +
		rankWeight*rankConfidence(best.FusedRank)
	confidence = clamp01(confidence)
	return confidence, Label(confidence)
}

// ScoreCandidate derives a per-candidate confidence, carried into citations.
func (s *ConfidenceScorer) ScoreCandidate(c Candidate) float64 {
	return clamp01(similarityWeight*similarityConfidence(c.VectorScore) +
		rankWeight*rankConfidence(c.FusedRank))
}

// similarityConfidence maps raw cosine similarity into a tier-aware base score.
// Each tier has its own base and multiplier so the mapping is continuous and
// strictly increasing in similarity, not a step function.
func similarityConfidence(similarity float64) float64 {
	switch {
	case similarity >= 0.9:
		return clamp01(0.85 + (similarity-0.9)*1.5)
	case similarity >= 0.8:
		return 0.70 + (similarity-0.8)*1.5
	case similarity >= 0.7:
		return 0.50 + (similarity-0.7)*2.0
	default:
		return clamp01(similarity * 0.6)
	}
}

// rankConfidence maps the best candidate's 1-based fused rank into a score.
func rankConfidence(rank int) float64 {
	switch {
	case rank <= rankHighThreshold:
		return rankHighScore
	case rank <= rankMediumThreshold:
		return rankMediumScore
	default:
		return rankLowScore
	}
}

// Label buckets a numeric confidence into "high", "medium" or "low".
func Label(confidence float64) string {
	switch {
	case confidence >= labelHighThreshold:
		return "high"
	case confidence >= labelMediumThreshold:
		return "medium"
	default:
		return "low"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
