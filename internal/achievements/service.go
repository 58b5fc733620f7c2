package achievements

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/algoquest/internal/store"
)

// Award is an achievement granted to the learner.
type Award struct {
	Definition
	AwardedAt time.Time
}

// Service awards achievements once and persists them as activity events.
type Service struct {
	defs      []Definition
	eventRepo store.EventRepo
	awarded   map[string]time.Time // used when eventRepo is nil
}

// NewService creates a Service over defs. A nil eventRepo keeps awards in
// memory only.
func NewService(defs []Definition, eventRepo store.EventRepo) *Service {
	return &Service{defs: defs, eventRepo: eventRepo, awarded: map[string]time.Time{}}
}

// Definitions returns the achievement catalog.
func (s *Service) Definitions() []Definition {
	return s.defs
}

// Sync awards every achievement p satisfies that has not been awarded yet.
// Each award's XP counts toward p before the next pass, so XP milestones
// reached through other awards unlock in the same call.
func (s *Service) Sync(ctx context.Context, p Progress) ([]Award, error) {
	unlocked, err := s.unlocked(ctx)
	if err != nil {
		return nil, err
	}

	var awards []Award
	for {
		progressed := false
		for _, d := range s.defs {
			if _, ok := unlocked[d.ID]; ok || !Unlocked(d, p) {
				continue
			}
			award := Award{Definition: d, AwardedAt: time.Now()}
			if err := s.persist(ctx, award); err != nil {
				return awards, err
			}
			unlocked[d.ID] = award.AwardedAt
			p.XP += d.XPReward
			awards = append(awards, award)
			progressed = true
		}
		if !progressed {
			return awards, nil
		}
	}
}

// Statuses evaluates every definition against p. Achievements already
// awarded stay unlocked even if their counter later drops, as a broken
// streak does.
func (s *Service) Statuses(ctx context.Context, p Progress) ([]Status, error) {
	unlocked, err := s.unlocked(ctx)
	if err != nil {
		return nil, err
	}
	statuses := Evaluate(s.defs, p)
	for i := range statuses {
		if _, ok := unlocked[statuses[i].ID]; ok {
			statuses[i].Unlocked = true
		}
	}
	return statuses, nil
}

func (s *Service) unlocked(ctx context.Context) (map[string]time.Time, error) {
	if s.eventRepo == nil {
		return s.awarded, nil
	}
	unlocked, err := s.eventRepo.UnlockedAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("load unlocked achievements: %w", err)
	}
	return unlocked, nil
}

func (s *Service) persist(ctx context.Context, award Award) error {
	if s.eventRepo == nil {
		return nil
	}
	err := s.eventRepo.AppendActivity(ctx, store.ActivityEventData{
		Kind:    store.ActivityAchievement,
		Subject: award.ID,
		Detail:  string(award.Rarity),
		XP:      award.XPReward,
	})
	if err != nil {
		return fmt.Errorf("persist achievement %s: %w", award.ID, err)
	}
	return nil
}
