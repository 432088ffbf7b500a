package recommendation

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"travelDiscovery/pkg/logger"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed locales.yaml
var defaultLocalesYAML []byte

// LocaleTable maps locale spellings to canonical names. It is immutable once built.
type LocaleTable struct {
	lookup     map[string]string
	canonicals []string
}

var (
	cachedLocaleTable *LocaleTable
	localeTableOnce   sync.Once
	localeTableErr    error
)

// LoadLocaleTable parses the embedded alias table once per process.
func LoadLocaleTable() (*LocaleTable, error) {
	localeTableOnce.Do(func() {
		var raw map[string][]string
		if err := yaml.Unmarshal(defaultLocalesYAML, &raw); err != nil {
			localeTableErr = fmt.Errorf("parsing locales.yaml: %w", err)
			return
		}
		cachedLocaleTable = NewLocaleTable(raw)
		logger.Info("locale aliases loaded", "locale_count", len(cachedLocaleTable.canonicals))
	})
	return cachedLocaleTable, localeTableErr
}

// MustLoadLocaleTable is LoadLocaleTable degrading to an empty table on error.
func MustLoadLocaleTable() *LocaleTable {
	table, err := LoadLocaleTable()
	if err != nil {
		logger.Warn("locale aliases unavailable, every locale will be dropped", "error", err)
		return NewLocaleTable(nil)
	}
	return table
}

// NewLocaleTable builds a table from canonical -> aliases. When two canonicals
// claim the same spelling the alphabetically first one keeps it.
func NewLocaleTable(raw map[string][]string) *LocaleTable {
	t := &LocaleTable{lookup: make(map[string]string)}

	for canonical := range raw {
		if strings.TrimSpace(canonical) != "" {
			t.canonicals = append(t.canonicals, strings.TrimSpace(canonical))
		}
	}
	sort.Strings(t.canonicals)

	add := func(spelling, canonical string) {
		for _, key := range localeKeys(spelling) {
			if prev, ok := t.lookup[key]; ok && prev != canonical {
				logger.Warn("locale alias claimed twice", "alias", spelling, "kept", prev, "ignored", canonical)
				continue
			}
			t.lookup[key] = canonical
		}
	}

	for _, canonical := range t.canonicals {
		add(canonical, canonical)
	}
	for _, canonical := range t.canonicals {
		for _, alias := range raw[canonical] {
			add(alias, canonical)
		}
	}

	return t
}

// Normalize resolves s to its canonical locale name.
func (t *LocaleTable) Normalize(s string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, key := range localeKeys(s) {
		if canonical, ok := t.lookup[key]; ok {
			return canonical, true
		}
	}
	return "", false
}

// NormalizeAll canonicalizes locales in order, dropping duplicates and unknown names.
func (t *LocaleTable) NormalizeAll(locales []string) []string {
	out := make([]string, 0, len(locales))
	seen := make(map[string]struct{}, len(locales))
	for _, l := range locales {
		canonical, ok := t.Normalize(l)
		if !ok {
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	return out
}

// Canonicals returns every canonical name, sorted.
func (t *LocaleTable) Canonicals() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.canonicals...)
}

var punctuation = strings.NewReplacer(".", " ", ",", " ", "-", " ", "_", " ", "đ", "d", "Đ", "D")

// localeKeys returns the spaced and compact lookup keys for s.
func localeKeys(s string) []string {
	folded := foldDiacritics(punctuation.Replace(s))
	spaced := strings.Join(strings.Fields(strings.ToLower(folded)), " ")
	if spaced == "" {
		return nil
	}
	compact := strings.ReplaceAll(spaced, " ", "")
	if compact == spaced {
		return []string{spaced}
	}
	return []string{spaced, compact}
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
