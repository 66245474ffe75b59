package match

import (
	"sort"
	"strings"

	"marquee/internal/library"
	"marquee/internal/title"
)

// Score composition and defaults. The cosine kernel dominates; word
// containment rescues short queries against longer official titles.
const (
	cosineWeight      = 0.75
	containmentWeight = 0.25
	yearMismatchScale = 0.75
)

// Kind tags a ranking outcome.
type Kind int

const (
	NoMatch Kind = iota
	SingleMatch
	Ambiguous
)

func (k Kind) String() string {
	switch k {
	case NoMatch:
		return "no_match"
	case SingleMatch:
		return "single_match"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// Ranked pairs a candidate with its relevance score.
type Ranked struct {
	library.Candidate
	Score float64
}

// Outcome is the tagged result of ranking a candidate set against a query.
// Best is populated for SingleMatch; Offers for Ambiguous, ordered by
// descending score and capped at the configured offer size.
type Outcome struct {
	Kind   Kind
	Best   Ranked
	Offers []Ranked
}

// Thresholds holds the ranker tuning constants. All values are expected to be
// in [0,1] with Confidence >= Floor; config validation enforces that.
type Thresholds struct {
	Floor      float64
	Confidence float64
	Margin     float64
	MaxOffers  int
}

// Ranker scores, deduplicates, and classifies search candidates. It is pure:
// identical inputs always produce identical outcomes.
type Ranker struct {
	thresholds Thresholds
}

// NewRanker builds a Ranker with the supplied thresholds.
func NewRanker(thresholds Thresholds) *Ranker {
	if thresholds.MaxOffers <= 0 {
		thresholds.MaxOffers = 5
	}
	return &Ranker{thresholds: thresholds}
}

// Rank orders candidates by similarity to the query and classifies the result.
//
// Classification:
//   - no candidate reaches the relevance floor: NoMatch
//   - the leader clears the confidence threshold and no runner-up sits within
//     the closeness margin: SingleMatch
//   - anything else still above the floor: Ambiguous
func (r *Ranker) Rank(query title.Query, candidates []library.Candidate) Outcome {
	scored := r.scoreAll(query, candidates)
	scored = dedupe(scored)

	relevant := scored[:0]
	for _, entry := range scored {
		if entry.Score >= r.thresholds.Floor {
			relevant = append(relevant, entry)
		}
	}
	if len(relevant) == 0 {
		return Outcome{Kind: NoMatch}
	}

	sortRanked(relevant)

	leader := relevant[0]
	if leader.Score >= r.thresholds.Confidence {
		if len(relevant) == 1 || leader.Score-relevant[1].Score > r.thresholds.Margin {
			return Outcome{Kind: SingleMatch, Best: leader}
		}
	}

	offers := relevant
	if len(offers) > r.thresholds.MaxOffers {
		offers = offers[:r.thresholds.MaxOffers]
	}
	return Outcome{Kind: Ambiguous, Offers: offers}
}

// Score computes the similarity between a query and a single candidate title.
// Exposed for logging and tests; Rank applies the same kernel.
func (r *Ranker) Score(query title.Query, candidate library.Candidate) float64 {
	return score(query, candidate)
}

func (r *Ranker) scoreAll(query title.Query, candidates []library.Candidate) []Ranked {
	scored := make([]Ranked, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, Ranked{Candidate: candidate, Score: score(query, candidate)})
	}
	return scored
}

func score(query title.Query, candidate library.Candidate) float64 {
	candidateKey := title.Key(candidate.Title)
	if candidateKey == "" {
		return 0
	}

	var value float64
	if candidateKey == query.Key {
		value = 1.0
	} else {
		cosine := cosineSimilarity(newFingerprint(query.Key), newFingerprint(candidateKey))
		containment := 0.0
		if wordContains(candidateKey, query.Key) || wordContains(query.Key, candidateKey) {
			containment = 1.0
		}
		value = cosineWeight*cosine + containmentWeight*containment
	}

	// A year mismatch demotes, never eliminates.
	if query.HasYear() && candidate.Year != 0 && candidate.Year != query.Year {
		value *= yearMismatchScale
	}
	return value
}

// wordContains reports whether needle appears in haystack on word boundaries.
func wordContains(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

// dedupe keeps the best-scored instance of each (normalized title, year)
// pair. Library identifier breaks score ties so the survivor is stable.
func dedupe(entries []Ranked) []Ranked {
	type dedupeKey struct {
		title string
		year  int
	}
	best := make(map[dedupeKey]Ranked, len(entries))
	order := make([]dedupeKey, 0, len(entries))
	for _, entry := range entries {
		key := dedupeKey{title: title.Key(entry.Title), year: entry.Year}
		existing, seen := best[key]
		if !seen {
			best[key] = entry
			order = append(order, key)
			continue
		}
		if entry.Score > existing.Score ||
			(entry.Score == existing.Score && entry.ID < existing.ID) {
			best[key] = entry
		}
	}
	result := make([]Ranked, 0, len(order))
	for _, key := range order {
		result = append(result, best[key])
	}
	return result
}

func sortRanked(entries []Ranked) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].ID < entries[j].ID
	})
}
