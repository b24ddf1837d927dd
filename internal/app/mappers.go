package app

import (
	"math"
	"strconv"
	"strings"

	"electrosite/internal/domain"
)

/********** alias registry (single source of truth) **********/

var reviewAliases = map[string][]string{
	"author":  {"author.name", "author", "name", "reviewer.name", "reviewer", "userName"},
	"role":    {"author.jobTitle", "role", "label"},
	"content": {"reviewBody", "description", "text", "comment", "content", "body"},
	"rating":  {"reviewRating.ratingValue", "rating.ratingValue", "rating", "ratingValue", "score"},
	"best":    {"reviewRating.bestRating", "rating.bestRating", "bestRating"},
	"date":    {"datePublished", "dateCreated", "date"},
	"avatar":  {"author.image.url", "author.image", "image.url", "image", "avatar"},
}

const defaultExternalRole = "Google review"

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) *string {
	for _, p := range reviewAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

/********** external reviews mapper **********/

// mapExternalReviews turns raw review objects into Reviews tagged with the given
// platform. Objects that cannot be shown (no text, rating off the 0..5 scale) are
// dropped. Ids are assigned later, once the final list is known.
func mapExternalReviews(in []map[string]any, platform string) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		rv := domain.Review{
			Name:    deref(firstNonEmptyAlias(r, "author")),
			Role:    deref(firstNonEmptyAlias(r, "role")),
			Content: deref(firstNonEmptyAlias(r, "content")),
			Date:    firstNonEmptyAlias(r, "date"),
			Avatar:  firstNonEmptyAlias(r, "avatar"),
			Source:  platform,
		}
		if rv.Name == "" {
			rv.Name = "Anonymous"
		}
		if rv.Role == "" {
			rv.Role = defaultExternalRole
		}

		f := getFloatFlexible(r, reviewAliases["rating"]...)
		if f == nil {
			continue
		}
		rating := *f
		// rescale ratings published on another scale (e.g. out of 10)
		if best := getFloatFlexible(r, reviewAliases["best"]...); best != nil && *best > 0 && *best != domain.MaxRating {
			rating = rating / *best * domain.MaxRating
		}
		if rating < domain.MinRating || rating > domain.MaxRating {
			continue
		}
		rv.Rating = math.Round(rating*10) / 10

		if !rv.Valid() {
			continue
		}
		out = append(out, rv)
	}
	return out
}

// assignExternalIDs numbers external reviews -1, -2, ... in list order. Internal
// testimonials use positive auto-increment ids, so the two never collide.
func assignExternalIDs(rs []domain.Review) {
	for i := range rs {
		rs[i].ID = -int64(i + 1)
	}
}
