package hotels

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwiseai/go-trip-planner/internal/types"
)

// fakeEmbedder returns fixed vectors per string so amenity similarity is
// deterministic. Unknown strings get an orthogonal unit vector.
type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{0, 0, 1}
		}
	}
	return out, nil
}

func hotel(name, city, rating, nightly string, amenities ...string) types.HotelCandidate {
	return types.HotelCandidate{
		Name:         name,
		City:         city,
		Rating:       rating,
		Price:        types.HotelPrice{Nightly: nightly},
		KeyAmenities: amenities,
	}
}

func exactMatcher(t *testing.T, requested []string, candidates []types.HotelCandidate) *AmenityMatcher {
	t.Helper()
	m, err := NewAmenityMatcher(context.Background(), &fakeEmbedder{}, requested, candidates, 0.7)
	require.NoError(t, err)
	return m
}

func TestFilterCandidatesCityExactMatch(t *testing.T) {
	candidates := []types.HotelCandidate{
		hotel("Harbor Inn", "Boston", "4.5/5", "$120"),
		hotel("Bay Suites", "boston", "4.0/5", "$99"),
		hotel("Metro Lodge", "Boston, MA", "4.8/5", "$150"), // near miss, rejected
		hotel("Coast Hotel", "Cambridge", "4.2/5", "$110"),
	}

	got := FilterCandidates(candidates, FilterCriteria{City: "Boston"}, exactMatcher(t, nil, candidates))

	require.Len(t, got, 2)
	assert.Equal(t, "Harbor Inn", got[0].Name)
	assert.Equal(t, "Bay Suites", got[1].Name)
}

func TestFilterCandidatesRating(t *testing.T) {
	candidates := []types.HotelCandidate{
		hotel("A", "Boston", "4.5/5", ""),
		hotel("B", "Boston", "4.0/5", ""),
		hotel("C", "Boston", "3.9/5", ""),
		hotel("D", "Boston", "N/A", ""),         // unparseable, rejected
		hotel("E", "Boston", "Excellent/5", ""), // unparseable, rejected
	}

	got := FilterCandidates(candidates, FilterCriteria{City: "Boston", MinRating: 4.0}, exactMatcher(t, nil, candidates))

	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "B", got[1].Name)
}

func TestFilterCandidatesPrice(t *testing.T) {
	candidates := []types.HotelCandidate{
		hotel("A", "Boston", "4/5", "$99"),
		hotel("B", "Boston", "4/5", "$1,250"), // separators stripped, over the cap
		hotel("C", "Boston", "4/5", "$150.50"),
		hotel("D", "Boston", "4/5", ""),              // no price at all, passes
		hotel("E", "Boston", "4/5", "Contact hotel"), // unparseable, rejected
	}

	got := FilterCandidates(candidates, FilterCriteria{City: "Boston", MaxPrice: 200}, exactMatcher(t, nil, candidates))

	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "C", got[1].Name)
	assert.Equal(t, "D", got[2].Name)
}

func TestAmenityControlledVocabularyExactOnly(t *testing.T) {
	candidates := []types.HotelCandidate{
		hotel("A", "Boston", "4/5", "", "Pet-friendly", "Pool"),
		hotel("B", "Boston", "4/5", "", "Dogs welcome", "Pool"),
	}

	// "Dogs welcome" is semantically close to pet-friendly, but the
	// controlled vocabulary demands the exact phrase.
	got := FilterCandidates(candidates, FilterCriteria{
		City:      "Boston",
		Amenities: []string{"pet-friendly"},
	}, exactMatcher(t, []string{"pet-friendly"}, candidates))

	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}

func TestAmenityFuzzyThreshold(t *testing.T) {
	candidates := []types.HotelCandidate{
		hotel("A", "Boston", "4/5", "", "Rooftop terrace with skyline view"),
		hotel("B", "Boston", "4/5", "", "Basement gym"),
	}

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"rooftop view":                      {1, 0, 0},
		"Rooftop terrace with skyline view": {0.9, 0.4359, 0}, // cos ~0.9 against the request
		"Basement gym":                      {0, 1, 0},
	}}
	m, err := NewAmenityMatcher(context.Background(), embedder, []string{"rooftop view"}, candidates, 0.7)
	require.NoError(t, err)

	got := FilterCandidates(candidates, FilterCriteria{
		City:      "Boston",
		Amenities: []string{"rooftop view"},
	}, m)

	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}

func TestAmenityConjunction(t *testing.T) {
	candidates := []types.HotelCandidate{
		hotel("A", "Boston", "4/5", "", "Pet-friendly", "Rooftop bar"),
		hotel("B", "Boston", "4/5", "", "Pet-friendly"),
		hotel("C", "Boston", "4/5", "", "Rooftop bar"),
	}

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"rooftop view": {1, 0, 0},
		"Rooftop bar":  {1, 0, 0},
	}}
	m, err := NewAmenityMatcher(context.Background(), embedder, []string{"Pet-friendly", "rooftop view"}, candidates, 0.7)
	require.NoError(t, err)

	got := FilterCandidates(candidates, FilterCriteria{
		City:      "Boston",
		Amenities: []string{"Pet-friendly", "rooftop view"},
	}, m)

	// Both requirements must hold; one match out of two is a rejection.
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}

func TestAmenityMatcherBatchesOneEmbeddingCall(t *testing.T) {
	var candidates []types.HotelCandidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, hotel(fmt.Sprintf("H%d", i), "Boston", "4/5", "", "Spa", "Pool", "Gym"))
	}

	embedder := &fakeEmbedder{}
	_, err := NewAmenityMatcher(context.Background(), embedder, []string{"wellness area"}, candidates, 0.7)
	require.NoError(t, err)

	assert.Equal(t, 1, embedder.calls, "all amenity strings must be embedded in one batch")
}

func TestAmenityMatcherSkipsEmbeddingForVocabularyOnly(t *testing.T) {
	candidates := []types.HotelCandidate{
		hotel("A", "Boston", "4/5", "", "Free breakfast"),
	}

	embedder := &fakeEmbedder{}
	_, err := NewAmenityMatcher(context.Background(), embedder, []string{"free breakfast", "Airport Shuttle"}, candidates, 0.7)
	require.NoError(t, err)

	assert.Zero(t, embedder.calls, "controlled-vocabulary terms never need embeddings")
}

func TestFilterCandidatesPreservesOrder(t *testing.T) {
	candidates := []types.HotelCandidate{
		hotel("First", "Boston", "5/5", "$100"),
		hotel("Second", "Boston", "4.5/5", "$110"),
		hotel("Third", "Boston", "4.2/5", "$120"),
	}
	candidates[0].Similarity = 0.95
	candidates[1].Similarity = 0.91
	candidates[2].Similarity = 0.88

	got := FilterCandidates(candidates, FilterCriteria{City: "Boston"}, exactMatcher(t, nil, candidates))

	require.Len(t, got, 3)
	assert.Equal(t, "First", got[0].Name)
	assert.Equal(t, "Second", got[1].Name)
	assert.Equal(t, "Third", got[2].Name)
}
