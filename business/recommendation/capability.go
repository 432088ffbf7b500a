package recommendation

import (
	"strings"

	"travelDiscovery/domain"
)

// Capability says which optional attributes a category carries.
type Capability struct {
	HasPrice       bool
	HasSubcategory bool
}

var capabilities = map[string]Capability{
	domain.CategoryRestaurant: {HasPrice: true, HasSubcategory: true},
	domain.CategoryCafe:       {HasPrice: true},
	domain.CategoryHotel:      {},
	domain.CategoryLandmark:   {},
}

// CapabilityOf returns the capability of category; unknown categories have none.
func CapabilityOf(category string) Capability {
	return capabilities[category]
}

func IsKnownCategory(category string) bool {
	_, ok := capabilities[category]
	return ok
}

// priceTier returns the price tier of a place-like record when its category is priced.
func priceTier(category, priceRange string) (string, bool) {
	if !CapabilityOf(category).HasPrice {
		return "", false
	}
	tier := strings.TrimSpace(priceRange)
	return tier, tier != ""
}

func subcategory(category, cuisineType string) (string, bool) {
	if !CapabilityOf(category).HasSubcategory {
		return "", false
	}
	sub := strings.ToLower(strings.TrimSpace(cuisineType))
	return sub, sub != ""
}

func categoryLabel(category string) string {
	switch category {
	case domain.CategoryHotel:
		return "hotels"
	case domain.CategoryRestaurant:
		return "restaurants"
	case domain.CategoryLandmark:
		return "landmarks"
	case domain.CategoryCafe:
		return "cafes"
	default:
		return category + " places"
	}
}
