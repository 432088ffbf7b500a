package recommendation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"travelDiscovery/domain"

	"github.com/goccy/go-json"
)

var errEmptyOutput = errors.New("generative service returned no criteria")

// buildPrompt asks for SearchCriteria as a single JSON object.
func buildPrompt(uc domain.UserContext, query, localeFilter string, cfg Config, locales *LocaleTable) string {
	var b strings.Builder

	b.WriteString("You turn a traveler's profile and request into search criteria for a place database.\n\n")

	b.WriteString("USER PROFILE\n")
	if len(uc.SavedCategories) == 0 {
		b.WriteString("- Saved places: none\n")
	} else {
		parts := make([]string, 0, len(uc.SavedCategories))
		for _, c := range uc.SavedCategories {
			parts = append(parts, fmt.Sprintf("%s (%d)", c, uc.SavedCountPerCategory[c]))
		}
		fmt.Fprintf(&b, "- Saved places by category: %s\n", strings.Join(parts, ", "))
	}
	if len(uc.VisitedLocales) > 0 {
		fmt.Fprintf(&b, "- Cities visited or saved: %s\n", strings.Join(uc.VisitedLocales, ", "))
	}
	if uc.PricePreference != "" {
		fmt.Fprintf(&b, "- Usual price range: %s\n", uc.PricePreference)
	}
	if uc.AvgRatingGiven != nil {
		fmt.Fprintf(&b, "- Average rating they give: %.1f/5\n", *uc.AvgRatingGiven)
	}
	if len(uc.PreferredSubcategories) > 0 {
		fmt.Fprintf(&b, "- Preferred cuisines: %s\n", strings.Join(uc.PreferredSubcategories, ", "))
	}
	if uc.RecentActivityFocus != "" {
		fmt.Fprintf(&b, "- Mostly saves: %s\n", uc.RecentActivityFocus)
	}

	b.WriteString("\nREQUEST\n")
	if query == "" {
		b.WriteString("- No search text. Suggest places this user would probably like.\n")
	} else {
		fmt.Fprintf(&b, "- Search text: %q\n", query)
	}
	if localeFilter != "" {
		fmt.Fprintf(&b, "- Restrict to city: %s\n", localeFilter)
	}

	cats := append([]string(nil), domain.Categories...)
	sort.Strings(cats)

	b.WriteString("\nRULES\n")
	fmt.Fprintf(&b, "- categories: choose from [%s] only.\n", strings.Join(cats, ", "))
	if known := locales.Canonicals(); len(known) > 0 {
		fmt.Fprintf(&b, "- locales: city names; prefer these spellings: %s.\n", strings.Join(known, ", "))
	}
	fmt.Fprintf(&b, "- keywords: at most %d short terms to match against place names and descriptions.\n", cfg.KeywordLimit)
	b.WriteString("- min_quality: minimum average rating between 0 and 5.\n")
	b.WriteString("- price_tiers: values like \"$\", \"$$\", \"$$$\"; leave empty when price does not matter.\n")
	b.WriteString("- match_priority: non-negative weights for category_match, rating, price, location, keywords.\n")
	b.WriteString("- reasoning: one sentence explaining the choice.\n")

	b.WriteString("\nRespond with only this JSON object:\n")
	b.WriteString(`{"categories":[],"locales":[],"keywords":[],"min_quality":4.0,"price_tiers":[],` +
		`"must_have_tags":[],"exclude_tags":[],"reasoning":"",` +
		`"match_priority":{"category_match":0.3,"rating":0.25,"price":0.15,"location":0.1,"keywords":0.2}}`)
	b.WriteString("\n")

	return b.String()
}

type criteriaPayload struct {
	Categories    []string        `json:"categories"`
	Locales       []string        `json:"locales"`
	Keywords      []string        `json:"keywords"`
	MinQuality    *float64        `json:"min_quality"`
	PriceTiers    []string        `json:"price_tiers"`
	MustHaveTags  []string        `json:"must_have_tags"`
	ExcludeTags   []string        `json:"exclude_tags"`
	Reasoning     string          `json:"reasoning"`
	MatchPriority *weightsPayload `json:"match_priority"`
}

type weightsPayload struct {
	CategoryMatch *float64 `json:"category_match"`
	Rating        *float64 `json:"rating"`
	Price         *float64 `json:"price"`
	Location      *float64 `json:"location"`
	Keywords      *float64 `json:"keywords"`
}

// decodeCriteria parses and validates model output. Locales are left raw;
// normalization and the min_quality cap happen in finalize.
func decodeCriteria(raw string, cfg Config) (domain.SearchCriteria, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return domain.SearchCriteria{}, errEmptyOutput
	}

	var p criteriaPayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return domain.SearchCriteria{}, fmt.Errorf("invalid criteria JSON: %w", err)
	}

	crit := domain.SearchCriteria{
		Categories:    knownCategories(p.Categories),
		Locales:       cleanList(p.Locales, 0),
		Keywords:      cleanList(p.Keywords, cfg.KeywordLimit),
		MinQuality:    cfg.DefaultMinQuality,
		PriceTiers:    cleanList(p.PriceTiers, 0),
		MustHaveTags:  cleanList(p.MustHaveTags, 0),
		ExcludeTags:   cleanList(p.ExcludeTags, 0),
		Reasoning:     strings.TrimSpace(p.Reasoning),
		MatchPriority: cfg.Weights,
	}

	if len(crit.Categories) == 0 {
		crit.Categories = append([]string(nil), cfg.PopularCategories...)
	}
	if p.MinQuality != nil {
		crit.MinQuality = *p.MinQuality
	}
	if crit.Reasoning == "" {
		crit.Reasoning = "Criteria tailored to your profile and search."
	}

	if w := p.MatchPriority; w != nil {
		crit.MatchPriority = domain.MatchPriority{
			CategoryMatch: weightOr(w.CategoryMatch, cfg.Weights.CategoryMatch),
			Rating:        weightOr(w.Rating, cfg.Weights.Rating),
			Price:         weightOr(w.Price, cfg.Weights.Price),
			Location:      weightOr(w.Location, cfg.Weights.Location),
			Keywords:      weightOr(w.Keywords, cfg.Weights.Keywords),
		}
	}

	return crit, nil
}

// extractJSONObject strips markdown fences and any prose around the outermost object.
func extractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func weightOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return nonNegative(*v)
}

// cleanList trims, drops empties and duplicates, and keeps at most limit items (0 = no limit).
func cleanList(in []string, limit int) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
