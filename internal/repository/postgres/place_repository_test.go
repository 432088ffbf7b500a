//go:build !integration

package postgres

import (
	"context"
	"strings"
	"testing"

	"travelDiscovery/domain"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type capturedQuery struct {
	SQL  string
	Vars []any
}

// dryRunDB renders SQL without a server and records every query statement with its bound vars.
func dryRunDB(t *testing.T) (*gorm.DB, *[]capturedQuery) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	var captured []capturedQuery
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		captured = append(captured, capturedQuery{
			SQL:  tx.Statement.SQL.String(),
			Vars: append([]any(nil), tx.Statement.Vars...),
		})
	})
	require.NoError(t, err)

	return db, &captured
}

func TestPlaceRepository_FindCandidatesSQL(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewPlaceRepository(db)

	_, err := repo.FindCandidates(context.Background(), domain.SearchCriteria{
		Categories:   []string{"cafe"},
		Locales:      []string{"Hanoi"},
		Keywords:     []string{"coffee", "100%"},
		MinQuality:   4.0,
		PriceTiers:   []string{"$$"},
		MustHaveTags: []string{"WiFi"},
		ExcludeTags:  []string{"smoking"},
	}, 30)
	require.NoError(t, err)
	require.Len(t, *captured, 1)

	sql := (*captured)[0].SQL
	t.Logf("candidate query: %s", sql)

	for _, fragment := range []string{
		"places.verification_status = $1",
		"places.place_type = ANY(",
		"places.city ILIKE ANY(",
		"(places.name ILIKE $",
		"places.average_rating >= $",
		"COALESCE(r.price_range, c.price_range) IS NULL OR",
		"NOT EXISTS (SELECT 1 FROM place_tags",
		"LEFT JOIN landmarks l ON l.id = places.id",
		"LIMIT ",
	} {
		assert.Contains(t, sql, fragment)
	}
	assert.Equal(t, 2, strings.Count(sql, "(places.name ILIKE"))
}

func TestPlaceRepository_FindCandidatesLocaleIsSubstringMatch(t *testing.T) {
	db, captured := dryRunDB(t)

	_, err := NewPlaceRepository(db).FindCandidates(context.Background(), domain.SearchCriteria{
		Locales: []string{"Hanoi", "Ho Chi Minh City"},
	}, 30)
	require.NoError(t, err)
	require.Len(t, *captured, 1)

	var patterns []string
	for _, v := range (*captured)[0].Vars {
		if arr, ok := v.(*pq.StringArray); ok {
			patterns = append(patterns, []string(*arr)...)
		}
	}
	assert.Equal(t, []string{"%Hanoi%", "%Ho Chi Minh City%"}, patterns)
}

func TestPlaceRepository_FindCandidatesSkipsEmptyFilters(t *testing.T) {
	db, captured := dryRunDB(t)

	_, err := NewPlaceRepository(db).FindCandidates(context.Background(), domain.SearchCriteria{}, 30)
	require.NoError(t, err)
	require.Len(t, *captured, 1)

	sql := (*captured)[0].SQL
	assert.NotContains(t, sql, "place_type = ANY")
	assert.NotContains(t, sql, "ILIKE")
	assert.NotContains(t, sql, "average_rating >=")
}

func TestSearchOrder(t *testing.T) {
	assert.Equal(t, "places.average_rating DESC, places.name ASC", searchOrder("rating"))
	assert.Equal(t, "places.created_at DESC", searchOrder("newest"))
	assert.Equal(t, "places.name ASC", searchOrder(""))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike(" 100% "))
	assert.Equal(t, `snake\_case`, escapeLike("snake_case"))
}
