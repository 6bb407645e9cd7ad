package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/mo"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// Matcher decides whether two templates come from the same finger.
type Matcher struct {
	store     model.TemplateStore
	scorer    model.Scorer
	threshold int
	logger    *logger.Logger
}

func NewMatcher(store model.TemplateStore, scorer model.Scorer, logger *logger.Logger) *Matcher {
	return &Matcher{
		store:     store,
		scorer:    scorer,
		threshold: model.MatchThreshold,
		logger:    logger,
	}
}

// Matches reports whether score clears the match threshold.
func (m *Matcher) Matches(score int) bool {
	return score > m.threshold
}

// MatchAgainstIdentity scores candidate against the template enrolled for
// identity. A missing template is ErrNoStoredTemplate, never a zero score.
func (m *Matcher) MatchAgainstIdentity(ctx context.Context, candidate model.Template, identity string) (int, error) {
	stored, err := m.store.FindByIdentity(ctx, identity)
	if errors.Is(err, model.ErrNotFound) {
		return 0, model.ErrNoStoredTemplate
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load template: %w", err)
	}

	score := m.scorer.Score(candidate, stored.Template)
	m.logger.Debug("Matcher: scored against identity", "identity", identity, "score", score)

	return score, nil
}

// MatchAgainstPopulation compares candidate with every enrolled template in
// insertion order and stops at the first score above the threshold.
func (m *Matcher) MatchAgainstPopulation(ctx context.Context, candidate model.Template) (model.DuplicateCheck, error) {
	population, err := m.store.ListAll(ctx)
	if err != nil {
		return model.DuplicateCheck{}, fmt.Errorf("failed to list templates: %w", err)
	}

	check := model.DuplicateCheck{MatchedIdentity: mo.None[string]()}
	for _, enrolled := range population {
		if err := ctx.Err(); err != nil {
			return model.DuplicateCheck{}, err
		}

		score := m.scorer.Score(candidate, enrolled.Template)
		check.Compared++

		if m.Matches(score) {
			m.logger.Info("Matcher: finger already enrolled", "identity", enrolled.Identity, "score", score)
			return model.DuplicateCheck{
				IsDuplicate:     true,
				MatchedIdentity: mo.Some(enrolled.Identity),
				Score:           score,
				Compared:        check.Compared,
			}, nil
		}
		if score > check.Score {
			check.Score = score
		}
	}

	m.logger.Debug("Matcher: no duplicate", "population", len(population), "best_score", check.Score)
	return check, nil
}
