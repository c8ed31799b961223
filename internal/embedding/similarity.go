package embedding

import (
	"math"
	"sort"
)

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths or a zero-norm operand score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Scored pairs a candidate index with its similarity to the query.
type Scored struct {
	Index int
	Score float64
}

// RankBySimilarity scores every candidate against the query and returns
// all of them ordered by score descending. The sort is stable, so equal
// scores keep the candidates' original order.
func RankBySimilarity(query []float64, candidates [][]float64) []Scored {
	ranked := make([]Scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = Scored{Index: i, Score: CosineSimilarity(query, Conform(c, len(query)))}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
