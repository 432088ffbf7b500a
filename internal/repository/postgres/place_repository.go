package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"travelDiscovery/business/place"
	"travelDiscovery/business/recommendation"
	"travelDiscovery/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// category attributes come from the joined subtype tables, tags from place_tags
const placeColumns = `places.id, places.name, places.place_type, places.address, places.city, places.country,
	places.main_image_url, places.average_rating, places.review_count, places.description,
	places.opening_hours, places.verification_status, places.created_at,
	COALESCE(r.price_range, c.price_range, '') AS price_range,
	COALESCE(r.cuisine_type, '') AS cuisine_type,
	COALESCE(h.hotel_class, 0) AS hotel_class,
	COALESCE(h.price_per_night, 0) AS price_per_night,
	COALESCE(l.ticket_price, 0) AS ticket_price,
	COALESCE(c.coffee_specialties, '') AS coffee_specialties,
	COALESCE(h.amenities, c.amenities, '{}') AS amenities,
	ARRAY(SELECT t.name FROM place_tags pt JOIN tags t ON t.id = pt.tag_id
		WHERE pt.place_id = places.id ORDER BY t.name) AS tag_names`

const (
	priceTierExpr = "COALESCE(r.price_range, c.price_range)"
	tagExistsExpr = "EXISTS (SELECT 1 FROM place_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.place_id = places.id AND lower(t.name) = ANY(?))"
)

type PlaceRepository struct {
	DB *gorm.DB
}

var (
	_ recommendation.PlaceRepository = (*PlaceRepository)(nil)
	_ place.PlaceRepository          = (*PlaceRepository)(nil)
)

func NewPlaceRepository(db *gorm.DB) *PlaceRepository {
	return &PlaceRepository{
		DB: db,
	}
}

func (r *PlaceRepository) withAttributes(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("places").
		Select(placeColumns).
		Joins("LEFT JOIN restaurants r ON r.id = places.id").
		Joins("LEFT JOIN cafes c ON c.id = places.id").
		Joins("LEFT JOIN hotels h ON h.id = places.id").
		Joins("LEFT JOIN landmarks l ON l.id = places.id").
		Where("places.verification_status = ?", domain.VerificationApproved)
}

// FindCandidates returns approved places matching every criterion, at most limit rows, unordered.
func (r *PlaceRepository) FindCandidates(ctx context.Context, crit domain.SearchCriteria, limit int) ([]domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.withAttributes(ctx)

	if len(crit.Categories) > 0 {
		q = q.Where("places.place_type = ANY(?)", pq.Array(crit.Categories))
	}
	if len(crit.Locales) > 0 {
		// substring match: "Hanoi" also matches "Hanoi Old Quarter"
		patterns := make([]string, 0, len(crit.Locales))
		for _, l := range crit.Locales {
			patterns = append(patterns, "%"+escapeLike(l)+"%")
		}
		q = q.Where("places.city ILIKE ANY(?)", pq.Array(patterns))
	}
	for _, kw := range crit.Keywords {
		pattern := "%" + escapeLike(kw) + "%"
		q = q.Where("(places.name ILIKE ? OR places.description ILIKE ?)", pattern, pattern)
	}
	if crit.MinQuality > 0 {
		q = q.Where("places.average_rating >= ?", crit.MinQuality)
	}
	if len(crit.PriceTiers) > 0 {
		// unpriced rows are not excluded by a price filter
		q = q.Where("("+priceTierExpr+" IS NULL OR "+priceTierExpr+" = ANY(?))", pq.Array(crit.PriceTiers))
	}
	if tags := lowerAll(crit.MustHaveTags); len(tags) > 0 {
		q = q.Where(tagExistsExpr, pq.Array(tags))
	}
	if tags := lowerAll(crit.ExcludeTags); len(tags) > 0 {
		q = q.Where("NOT "+tagExistsExpr, pq.Array(tags))
	}

	var places []domain.Place
	if err := q.Limit(limit).Find(&places).Error; err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}

	return places, nil
}

// Search is the public listing: filters, sort, offset paging and the total count.
func (r *PlaceRepository) Search(ctx context.Context, filter domain.PlaceSearchFilter) ([]domain.Place, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	var total int64
	countQuery := applySearchFilters(
		r.DB.WithContext(ctx).Table("places").Where("places.verification_status = ?", domain.VerificationApproved),
		filter,
	)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count places: %w", err)
	}

	var places []domain.Place
	err := applySearchFilters(r.withAttributes(ctx), filter).
		Order(searchOrder(filter.SortBy)).
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&places).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search places: %w", err)
	}

	return places, total, nil
}

func (r *PlaceRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return domain.Place{}, fmt.Errorf("context error: %w", err)
	}

	var p domain.Place
	err := r.withAttributes(ctx).Where("places.id = ?", id).Take(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Place{}, domain.ErrPlaceNotFound
		}
		return domain.Place{}, fmt.Errorf("failed to find place: %w", err)
	}

	return p, nil
}

func applySearchFilters(q *gorm.DB, f domain.PlaceSearchFilter) *gorm.DB {
	if f.Q != "" {
		q = q.Where("places.name ILIKE ?", "%"+escapeLike(f.Q)+"%")
	}
	if f.PlaceType != "" {
		q = q.Where("places.place_type = ?", f.PlaceType)
	}
	if f.City != "" {
		q = q.Where("places.city ILIKE ?", escapeLike(f.City))
	}
	if f.MinRating > 0 {
		q = q.Where("places.average_rating >= ?", f.MinRating)
	}
	if tags := lowerAll(f.Tags); len(tags) > 0 {
		q = q.Where(tagExistsExpr, pq.Array(tags))
	}
	return q
}

func searchOrder(sortBy string) string {
	switch sortBy {
	case "rating":
		return "places.average_rating DESC, places.name ASC"
	case "newest":
		return "places.created_at DESC"
	default:
		return "places.name ASC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(strings.TrimSpace(s))
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
