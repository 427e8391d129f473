package application

import (
	"context"
	"strings"

	"github.com/viralforge/forensics-engine/internal/domain"
)

// MatchBrandFit scores the brand keyword set against the influencer's text.
// An influencer with no overlapping vocabulary scores zero; that is an
// answer, not an error.
func (s *Service) MatchBrandFit(ctx context.Context, in BrandFitInput) (domain.AestheticMatch, error) {
	keywords := make([]string, 0, len(in.Keywords))
	for _, kw := range in.Keywords {
		if strings.TrimSpace(kw) != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return domain.AestheticMatch{}, domain.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return domain.AestheticMatch{}, deadlineErr(err)
	}

	match, err := domain.MatchBrand(in.Bio, in.Captions, keywords, s.cfg.BrandFit)
	if err != nil {
		return domain.AestheticMatch{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.AestheticMatch{}, deadlineErr(err)
	}
	return match, nil
}
