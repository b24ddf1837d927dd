package app

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"electrosite/internal/adapters/observability"
	"electrosite/internal/domain"
)

//go:embed backup_reviews.yaml
var backupReviewsYAML []byte

type backupReview struct {
	Name    string  `yaml:"name"`
	Role    string  `yaml:"role"`
	Content string  `yaml:"content"`
	Rating  float64 `yaml:"rating"`
	Date    string  `yaml:"date"`
	Avatar  string  `yaml:"avatar"`
}

// parseBackupReviews decodes the fallback list, keeping declaration order.
func parseBackupReviews(b []byte, platform string) ([]domain.Review, error) {
	var raw []backupReview
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode backup reviews: %w", err)
	}
	out := make([]domain.Review, 0, len(raw))
	for i, r := range raw {
		rv := domain.Review{
			Name:    r.Name,
			Role:    r.Role,
			Content: r.Content,
			Rating:  r.Rating,
			Date:    ptrStr(r.Date),
			Avatar:  ptrStr(r.Avatar),
			Source:  platform,
		}
		if !rv.Valid() {
			return nil, fmt.Errorf("backup review %d (%q) is not displayable", i, r.Name)
		}
		out = append(out, rv)
	}
	assignExternalIDs(out)
	return out, nil
}

// BackupReviews returns a fresh copy of the embedded fallback list.
func BackupReviews() []domain.Review {
	out, err := parseBackupReviews(backupReviewsYAML, domain.SourceGoogle)
	if err != nil {
		// embedded at build time; a malformed file is a programming error
		panic(err)
	}
	return out
}

// ReviewResolver produces the external review list: live when a scraper is
// configured and returns usable reviews, the backup list otherwise.
type ReviewResolver struct {
	scraper  domain.ReviewScraper
	platform string
	timeout  time.Duration
	backup   []domain.Review
}

// NewReviewResolver accepts a nil scraper, in which case it always serves backup data.
func NewReviewResolver(s domain.ReviewScraper, timeout time.Duration) *ReviewResolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ReviewResolver{scraper: s, platform: domain.SourceGoogle, timeout: timeout, backup: BackupReviews()}
}

// Resolve never fails: any problem with the live source degrades to the backup
// list. live reports which of the two was returned.
func (r *ReviewResolver) Resolve(ctx context.Context) (reviews []domain.Review, live bool) {
	if r.scraper == nil {
		return r.fallback("disabled", nil), false
	}
	defer func() {
		if p := recover(); p != nil {
			reviews, live = r.fallback("panic", fmt.Errorf("%v", p)), false
		}
	}()

	fctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.scraper.FetchReviews(fctx)
	if err != nil {
		return r.fallback("fetch_error", err), false
	}
	out := mapExternalReviews(raw, r.platform)
	if len(out) == 0 {
		return r.fallback("empty", nil), false
	}
	assignExternalIDs(out)
	observability.ObserveReviewResolution("live")
	return out, true
}

func (r *ReviewResolver) fallback(reason string, err error) []domain.Review {
	observability.ObserveReviewResolution("backup")
	if reason != "disabled" {
		log.Warn().Err(err).Str("reason", reason).Msg("live reviews unavailable, serving backup list")
	}
	out := make([]domain.Review, len(r.backup))
	copy(out, r.backup)
	return out
}
