package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/viralforge/forensics-engine/internal/domain"
)

// AnalyzeForensics runs the distribution and entropy analyses concurrently
// under the request deadline, then composes the fraud assessment from both
// plus whatever auxiliary signals the caller supplied. Either every
// sub-analysis lands inside the budget or the whole request fails with
// ErrTimeout; partial results are never returned.
func (s *Service) AnalyzeForensics(ctx context.Context, in ForensicsInput) (domain.ForensicsReport, error) {
	if len(in.Metrics) == 0 {
		return domain.ForensicsReport{}, domain.ErrInvalidInput
	}
	for _, m := range in.Metrics {
		if m < 0 {
			return domain.ForensicsReport{}, domain.ErrInvalidInput
		}
	}
	if len(in.Comments) == 0 {
		return domain.ForensicsReport{}, domain.ErrInsufficientData
	}
	if in.FakeFollowerRatio != nil && (*in.FakeFollowerRatio < 0 || *in.FakeFollowerRatio > 1) {
		return domain.ForensicsReport{}, domain.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	var (
		dist domain.DigitDistribution
		ent  domain.EntropyResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		dist, err = domain.AnalyzeDistribution(in.Metrics, s.cfg.Benford)
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		ent, err = domain.ScoreComments(in.Comments, s.cfg.Entropy)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.ForensicsReport{}, deadlineErr(err)
	}
	if err := ctx.Err(); err != nil {
		return domain.ForensicsReport{}, deadlineErr(err)
	}

	fraud := domain.AssessFraud(dist, ent, domain.AuxiliarySignals{
		FakeFollowerRatio: in.FakeFollowerRatio,
		EngagementRate:    in.EngagementRate,
		Reach:             in.Reach,
		WeeklyFollowers:   in.WeeklyFollowers,
	}, s.cfg.Fraud)

	return domain.ForensicsReport{Distribution: dist, Entropy: ent, Fraud: fraud}, nil
}
