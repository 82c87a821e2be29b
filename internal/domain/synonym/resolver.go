package synonym

import (
	"sort"
	"strings"

	"github.com/propdesk/prop-grading/internal/domain/statrecord"
)

// candidate is one concrete stat key observed in the pool, with the number of
// records that carry it and the order in which it was first seen.
type candidate struct {
	key        string
	votes      int
	firstSeen  int
	inCategory bool
}

// Resolve maps a requested stat name onto a concrete key present in the pool.
//
// A name with no category separator that already exists verbatim in any record
// is returned unchanged. Otherwise the name is treated as "category:metric"
// (or a bare metric, widened through the batting-line variants) and matched
// case-insensitively against observed keys: an exact match on the full key, or
// a key ending in ".metric" or "_metric". Providers nest metrics under
// inconsistent category prefixes, so the requested category never excludes a
// key; it only ranks keys that do carry it ahead of keys that do not. After
// that, the key carried by the most records wins, and a tie goes to the key
// seen first while scanning the pool in order. Returns "" when nothing
// matches.
func Resolve(requested string, pool []statrecord.Record) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return ""
	}

	category, metric, hasCategory := strings.Cut(requested, ":")
	if !hasCategory {
		for _, rec := range pool {
			if _, ok := rec.Stats[requested]; ok {
				return requested
			}
		}
		metric = requested
		category = ""
	}

	metrics := variantSet(metric)
	categoryLower := strings.ToLower(strings.TrimSpace(category))
	if len(metrics) == 0 {
		return ""
	}

	var (
		candidates []candidate
		indexByKey = map[string]int{}
	)
	vote := func(key string) {
		if i, ok := indexByKey[key]; ok {
			candidates[i].votes++
			return
		}
		indexByKey[key] = len(candidates)
		candidates = append(candidates, candidate{
			key:        key,
			votes:      1,
			firstSeen:  len(candidates),
			inCategory: hasCategoryPrefix(key, categoryLower),
		})
	}

	for _, rec := range pool {
		for _, key := range sortedStatKeys(rec) {
			if matchesMetric(key, metrics) {
				vote(key)
			}
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if outranks(c, best) {
			best = c
		}
	}
	return best.key
}

// outranks orders candidates: requested-category keys first, then vote count.
// Equal rank keeps the earlier candidate, which is the first-seen tie-break.
func outranks(c, best candidate) bool {
	if c.inCategory != best.inCategory {
		return c.inCategory
	}
	return c.votes > best.votes
}

// variantSet widens a metric name through the batting-line catalog so that a
// canonical request like "so" also matches keys spelled "strikeouts".
func variantSet(metric string) map[string]struct{} {
	metricLower := strings.ToLower(strings.TrimSpace(metric))
	if metricLower == "" {
		return nil
	}
	out := map[string]struct{}{metricLower: {}}
	canonical := canonicalByVariant[metricLower]
	if canonical == "" {
		return out
	}
	for _, group := range battingLine {
		if group.Canonical != canonical {
			continue
		}
		for _, variant := range group.Variants {
			out[strings.ToLower(variant)] = struct{}{}
		}
	}
	return out
}

// sortedStatKeys returns a record's stat keys in lexical order so that a
// voting tie always lands on the same key.
func sortedStatKeys(rec statrecord.Record) []string {
	keys := make([]string, 0, len(rec.Stats))
	for key := range rec.Stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// matchesMetric reports whether a concrete stat key carries any of the
// widened metric spellings: the whole key, or a ".metric" / "_metric" suffix.
// Matching is case-insensitive.
func matchesMetric(key string, metrics map[string]struct{}) bool {
	keyLower := strings.ToLower(key)
	for metric := range metrics {
		if keyLower == metric ||
			strings.HasSuffix(keyLower, "."+metric) ||
			strings.HasSuffix(keyLower, "_"+metric) {
			return true
		}
	}
	return false
}

func hasCategoryPrefix(key, category string) bool {
	if category == "" {
		return false
	}
	keyLower := strings.ToLower(key)
	return strings.HasPrefix(keyLower, category+".") ||
		strings.HasPrefix(keyLower, category+"_")
}
