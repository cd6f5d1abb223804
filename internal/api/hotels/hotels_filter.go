package hotels

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	generativeAI "github.com/tripwiseai/go-trip-planner/internal/api/generative_ai"
	"github.com/tripwiseai/go-trip-planner/internal/types"
)

// Embedder is the embedding dependency of the hotel path.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// controlledVocabulary holds amenity terms with a fixed canonical spelling.
// These require an exact case-insensitive match: common phrasings must not
// pick up false positives from semantic drift (e.g. "kid-friendly" matching
// "family room" via embedding similarity).
var controlledVocabulary = map[string]struct{}{
	"pet-friendly":    {},
	"kid-friendly":    {},
	"child-friendly":  {},
	"airport shuttle": {},
	"free breakfast":  {},
}

type FilterCriteria struct {
	City      string
	MinRating float64
	MaxPrice  float64
	Amenities []string
}

// AmenityMatcher resolves amenity requirements against a candidate's amenity
// set. All strings that may need semantic comparison during one filter pass
// are embedded up front in a single batched call.
type AmenityMatcher struct {
	threshold float64
	vectors   map[string][]float32
}

// NewAmenityMatcher embeds every string a filter pass can touch: each
// requested amenity outside the controlled vocabulary plus every amenity of
// every candidate. When no fuzzy amenity is requested no embedding call is
// made at all.
func NewAmenityMatcher(ctx context.Context, embedder Embedder, requested []string, candidates []types.HotelCandidate, threshold float64) (*AmenityMatcher, error) {
	m := &AmenityMatcher{threshold: threshold, vectors: map[string][]float32{}}

	var fuzzy []string
	seen := map[string]struct{}{}
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		fuzzy = append(fuzzy, s)
	}

	needSemantic := false
	for _, a := range requested {
		if _, exact := controlledVocabulary[strings.ToLower(a)]; !exact {
			needSemantic = true
			add(a)
		}
	}
	if !needSemantic {
		return m, nil
	}

	for _, c := range candidates {
		for _, a := range c.KeyAmenities {
			add(a)
		}
	}

	vectors, err := embedder.GenerateEmbeddings(ctx, fuzzy)
	if err != nil {
		return nil, fmt.Errorf("failed to embed amenity strings: %w", err)
	}
	for i, s := range fuzzy {
		m.vectors[s] = vectors[i]
	}
	return m, nil
}

// Matches reports whether one requested amenity is satisfied by the
// candidate's amenity set.
func (m *AmenityMatcher) Matches(requested string, hotelAmenities []string) bool {
	lower := strings.ToLower(requested)
	if _, exact := controlledVocabulary[lower]; exact {
		for _, h := range hotelAmenities {
			if strings.EqualFold(requested, h) {
				return true
			}
		}
		return false
	}

	reqVec, ok := m.vectors[requested]
	if !ok {
		return false
	}
	best := 0.0
	for _, h := range hotelAmenities {
		vec, ok := m.vectors[h]
		if !ok {
			continue
		}
		if sim := generativeAI.CosineSimilarity(reqVec, vec); sim > best {
			best = sim
		}
	}
	return best >= m.threshold
}

// FilterCandidates applies the hard constraints and the amenity policy to
// similarity-ranked candidates. Input order is preserved. Each check rejects
// only the candidate being evaluated; a parse failure never aborts the pass.
func FilterCandidates(candidates []types.HotelCandidate, criteria FilterCriteria, matcher *AmenityMatcher) []types.HotelCandidate {
	kept := make([]types.HotelCandidate, 0, len(candidates))
	for _, c := range candidates {
		if keepCandidate(c, criteria, matcher) {
			kept = append(kept, c)
		}
	}
	return kept
}

// keepCandidate short-circuits on the first failing check: city, rating,
// price, then amenities.
func keepCandidate(c types.HotelCandidate, criteria FilterCriteria, matcher *AmenityMatcher) bool {
	// The retriever is a semantic search and can return wrong-city results;
	// the exact match here defends against that.
	if !strings.EqualFold(c.City, criteria.City) {
		return false
	}

	if criteria.MinRating > 0 {
		rating, err := parseRating(c.Rating)
		if err != nil || rating < criteria.MinRating {
			return false
		}
	}

	if criteria.MaxPrice > 0 {
		price, present, err := parseNightlyPrice(c.Price.Nightly)
		if err != nil {
			return false
		}
		if present && price > criteria.MaxPrice {
			return false
		}
	}

	// Conjunction: every requested amenity must be satisfied.
	for _, a := range criteria.Amenities {
		if !matcher.Matches(a, c.KeyAmenities) {
			return false
		}
	}

	return true
}

// parseRating reads the leading numeric token of a stored "X/5" rating.
func parseRating(s string) (float64, error) {
	head, _, _ := strings.Cut(s, "/")
	return strconv.ParseFloat(strings.TrimSpace(head), 64)
}

// parseNightlyPrice strips the currency symbol and thousands separators from
// a stored nightly price. An empty string means the candidate carries no
// price information; that is not a parse failure.
func parseNightlyPrice(s string) (float64, bool, error) {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), "$", ""), ",", "")
	if cleaned == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, true, err
	}
	return v, true, nil
}
