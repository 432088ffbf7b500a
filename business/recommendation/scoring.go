package recommendation

import (
	"fmt"
	"sort"
	"strings"

	"travelDiscovery/domain"
)

const (
	maxReasons    = 3
	genericReason = "Recommended based on your search"
)

// Score ranks candidates against the criteria and the user's profile and
// returns at most maxResults of them. It has no side effects.
func Score(candidates []domain.Place, crit domain.SearchCriteria, uc domain.UserContext, maxResults int) []domain.ScoredCandidate {
	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, p := range candidates {
		scored = append(scored, scoreOne(p, crit, uc))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if maxResults >= 0 && len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

func scoreOne(p domain.Place, crit domain.SearchCriteria, uc domain.UserContext) domain.ScoredCandidate {
	w := crit.MatchPriority
	category := strings.ToLower(p.PlaceType)

	var (
		score   float64
		reasons []string
	)

	if categoryMatches(category, uc) {
		score += w.CategoryMatch
		reasons = append(reasons, fmt.Sprintf("Matches your interest in %s", categoryLabel(category)))
	}

	if uc.AvgRatingGiven != nil {
		if p.AverageRating >= *uc.AvgRatingGiven {
			score += w.Rating * p.AverageRating / 5
			reasons = append(reasons, fmt.Sprintf("Highly rated (%.1f/5)", p.AverageRating))
		}
	} else if p.AverageRating >= ratingFallbackBar {
		score += w.Rating * p.AverageRating / 5 * ratingFallbackMultiplier
		reasons = append(reasons, fmt.Sprintf("Highly rated (%.1f/5)", p.AverageRating))
	}

	if tier, ok := priceTier(category, p.PriceRange); ok && priceMatches(tier, uc) {
		score += w.Price
		reasons = append(reasons, fmt.Sprintf("Matches your usual price range (%s)", tier))
	}

	if p.City != "" && uc.HasVisited(p.City) {
		score += w.Location * 0.5
		reasons = append(reasons, fmt.Sprintf("In %s, a city you have visited", p.City))
	}

	if total := len(crit.Keywords); total > 0 {
		if matched := matchedKeywords(p, crit.Keywords); matched > 0 {
			score += w.Keywords * float64(matched) / float64(total)
			reasons = append(reasons, fmt.Sprintf("Matches %d of %d search terms", matched, total))
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	if len(reasons) == 0 {
		reasons = []string{genericReason}
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}

	return domain.ScoredCandidate{Place: p, Score: score, Reasons: reasons}
}

// categoryMatches and priceMatches look at the profile only. A user without
// history earns no category or price credit.
func categoryMatches(category string, uc domain.UserContext) bool {
	return uc.HasSavedCategory(category)
}

func priceMatches(tier string, uc domain.UserContext) bool {
	return uc.PricePreference != "" && strings.EqualFold(tier, uc.PricePreference)
}

func matchedKeywords(p domain.Place, keywords []string) int {
	haystack := strings.ToLower(p.Name + " " + p.Description)
	n := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(haystack, kw) {
			n++
		}
	}
	return n
}
