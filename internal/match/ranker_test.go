package match_test

import (
	"testing"

	"marquee/internal/library"
	"marquee/internal/match"
	"marquee/internal/title"
)

func defaultRanker() *match.Ranker {
	return match.NewRanker(match.Thresholds{
		Floor:      0.30,
		Confidence: 0.60,
		Margin:     0.15,
		MaxOffers:  5,
	})
}

func mustQuery(t *testing.T, raw string) title.Query {
	t.Helper()
	query, err := title.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize(%q): %v", raw, err)
	}
	return query
}

func TestRankEmptyFieldIsNoMatch(t *testing.T) {
	outcome := defaultRanker().Rank(mustQuery(t, "zzzznotamovie"), nil)
	if outcome.Kind != match.NoMatch {
		t.Fatalf("Kind = %s, want no_match", outcome.Kind)
	}
}

func TestRankIrrelevantFieldIsNoMatch(t *testing.T) {
	candidates := []library.Candidate{
		{ID: "1", Title: "Paddington", Year: 2014},
		{ID: "2", Title: "Heat", Year: 1995},
	}
	outcome := defaultRanker().Rank(mustQuery(t, "zzzznotamovie"), candidates)
	if outcome.Kind != match.NoMatch {
		t.Fatalf("Kind = %s, want no_match", outcome.Kind)
	}
}

func TestRankExactTitleIsSingleMatch(t *testing.T) {
	candidates := []library.Candidate{
		{ID: "lib-1", Title: "Inception", Year: 2010, Available: true},
	}
	outcome := defaultRanker().Rank(mustQuery(t, "inception"), candidates)
	if outcome.Kind != match.SingleMatch {
		t.Fatalf("Kind = %s, want single_match", outcome.Kind)
	}
	if outcome.Best.ID != "lib-1" {
		t.Errorf("Best.ID = %q", outcome.Best.ID)
	}
	if outcome.Best.Score != 1.0 {
		t.Errorf("exact key match score = %v, want 1.0", outcome.Best.Score)
	}
}

func TestRankSequelsAreAmbiguous(t *testing.T) {
	candidates := []library.Candidate{
		{ID: "lib-2", Title: "The Matrix Reloaded", Year: 2003},
		{ID: "lib-1", Title: "The Matrix", Year: 1999},
	}
	outcome := defaultRanker().Rank(mustQuery(t, "matrix"), candidates)
	if outcome.Kind != match.Ambiguous {
		t.Fatalf("Kind = %s, want ambiguous", outcome.Kind)
	}
	if len(outcome.Offers) != 2 {
		t.Fatalf("len(Offers) = %d, want 2", len(outcome.Offers))
	}
	if outcome.Offers[0].Title != "The Matrix" {
		t.Errorf("Offers[0] = %q, want the closer title first", outcome.Offers[0].Title)
	}
	if outcome.Offers[0].Score < outcome.Offers[1].Score {
		t.Errorf("offers not sorted by descending score: %v", outcome.Offers)
	}
}

func TestRankYearDisambiguates(t *testing.T) {
	candidates := []library.Candidate{
		{ID: "lib-1", Title: "King Kong", Year: 1933},
		{ID: "lib-2", Title: "King Kong", Year: 2005},
	}
	outcome := defaultRanker().Rank(mustQuery(t, "king kong (2005)"), candidates)
	if outcome.Kind != match.SingleMatch {
		t.Fatalf("Kind = %s, want single_match", outcome.Kind)
	}
	if outcome.Best.Year != 2005 {
		t.Errorf("Best.Year = %d, want 2005", outcome.Best.Year)
	}
}

func TestRankYearMismatchDemotesNotEliminates(t *testing.T) {
	candidates := []library.Candidate{
		{ID: "lib-1", Title: "King Kong", Year: 1933},
	}
	outcome := defaultRanker().Rank(mustQuery(t, "king kong (2005)"), candidates)
	if outcome.Kind == match.NoMatch {
		t.Fatal("year mismatch must not eliminate the only plausible candidate")
	}
}

func TestRankDeduplicatesCollidingPairs(t *testing.T) {
	candidates := []library.Candidate{
		{ID: "lib-9", Title: "The Matrix", Year: 1999},
		{ID: "lib-1", Title: "the  matrix", Year: 1999},
		{ID: "lib-5", Title: "The Matrix Reloaded", Year: 2003},
	}
	outcome := defaultRanker().Rank(mustQuery(t, "matrix"), candidates)
	if outcome.Kind != match.Ambiguous {
		t.Fatalf("Kind = %s, want ambiguous", outcome.Kind)
	}
	seen := map[string]bool{}
	for _, offer := range outcome.Offers {
		key := title.Key(offer.Title)
		if seen[key] {
			t.Fatalf("duplicate normalized title %q in offers", key)
		}
		seen[key] = true
	}
	// Equal scores collapse to the earlier library identifier.
	if outcome.Offers[0].ID != "lib-1" {
		t.Errorf("survivor ID = %q, want lib-1", outcome.Offers[0].ID)
	}
}

func TestRankCapsOfferCount(t *testing.T) {
	ranker := match.NewRanker(match.Thresholds{Floor: 0.1, Confidence: 0.99, Margin: 0.5, MaxOffers: 3})
	candidates := []library.Candidate{
		{ID: "a", Title: "Alien", Year: 1979},
		{ID: "b", Title: "Aliens", Year: 1986},
		{ID: "c", Title: "Alien 3", Year: 1992},
		{ID: "d", Title: "Alien Resurrection", Year: 1997},
		{ID: "e", Title: "Alien Covenant", Year: 2017},
	}
	outcome := ranker.Rank(mustQuery(t, "alien"), candidates)
	if outcome.Kind != match.Ambiguous {
		t.Fatalf("Kind = %s, want ambiguous", outcome.Kind)
	}
	if len(outcome.Offers) > 3 {
		t.Errorf("len(Offers) = %d, want <= 3", len(outcome.Offers))
	}
}

func TestRankDeterministicOrdering(t *testing.T) {
	candidates := []library.Candidate{
		{ID: "b", Title: "Dune Part Two", Year: 2024},
		{ID: "a", Title: "Dune Part One", Year: 2021},
	}
	first := defaultRanker().Rank(mustQuery(t, "dune part"), candidates)
	second := defaultRanker().Rank(mustQuery(t, "dune part"), candidates)
	if first.Kind != second.Kind || len(first.Offers) != len(second.Offers) {
		t.Fatalf("runs disagree: %+v vs %+v", first, second)
	}
	for i := range first.Offers {
		if first.Offers[i].ID != second.Offers[i].ID {
			t.Errorf("offer order unstable at %d: %q vs %q", i, first.Offers[i].ID, second.Offers[i].ID)
		}
	}
}

func TestRankSoleLowConfidenceCandidateIsAmbiguous(t *testing.T) {
	candidates := []library.Candidate{
		{ID: "lib-1", Title: "The Matrix Revolutions Behind The Scenes", Year: 2004},
	}
	outcome := defaultRanker().Rank(mustQuery(t, "matrix"), candidates)
	if outcome.Kind != match.Ambiguous {
		t.Fatalf("Kind = %s, want ambiguous confirmation prompt", outcome.Kind)
	}
	if len(outcome.Offers) != 1 {
		t.Errorf("len(Offers) = %d, want 1", len(outcome.Offers))
	}
}
