package badge

import (
	"context"
	"time"

	"github.com/abi-lab/backend/internal/common"
	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/pubsub"
	"github.com/abi-lab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

type Manager struct {
	// This field is only written at initialization. After that, it is readonly.
	// So no need to use sync map here.
	scanners map[CriteriaType]CriteriaScanner

	badgeRepo     repository.BadgeRepository
	userBadgeRepo repository.UserBadgeRepository
	statsLoader   *StatsLoader
	publisher     pubsub.Publisher
}

func NewManager(
	badgeRepo repository.BadgeRepository,
	userBadgeRepo repository.UserBadgeRepository,
	statsLoader *StatsLoader,
	publisher pubsub.Publisher,
	scanners ...CriteriaScanner,
) *Manager {
	manager := &Manager{
		scanners:      make(map[CriteriaType]CriteriaScanner),
		badgeRepo:     badgeRepo,
		userBadgeRepo: userBadgeRepo,
		statsLoader:   statsLoader,
		publisher:     publisher,
	}

	for _, s := range scanners {
		manager.scanners[s.Type()] = s
	}

	return manager
}

func (m *Manager) GetCriteriaTypes() []CriteriaType {
	types := common.MapKeys(m.scanners)
	slices.Sort(types)
	return types
}

// ScanAndGive awards the user every badge which is not held yet and whose
// criteria is reached. It returns the newly awarded badges.
func (m *Manager) ScanAndGive(ctx context.Context, userID string) ([]entity.Badge, error) {
	badges, err := m.badgeRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get all badges: %v", err)
		return nil, errorx.Unknown
	}

	heldIDs, err := m.userBadgeRepo.GetBadgeIDs(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get held badges: %v", err)
		return nil, errorx.Unknown
	}

	stats, err := m.statsLoader.Load(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load stats of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	awarded := []entity.Badge{}
	for _, badge := range badges {
		if slices.Contains(heldIDs, badge.ID) {
			continue
		}

		criteria, err := ParseCriteria(badge.Criteria)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot parse criteria of badge %s: %v", badge.Slug, err)
			continue
		}

		scanner, ok := m.scanners[criteria.Type]
		if !ok {
			xcontext.Logger(ctx).Warnf("Not found scanner for criteria %s of badge %s", criteria.Type, badge.Slug)
			continue
		}

		if scanner.Scan(stats) < criteria.Required() {
			continue
		}

		created, err := m.userBadgeRepo.Create(ctx, &entity.UserBadge{
			UserID:    userID,
			BadgeID:   badge.ID,
			AwardedAt: time.Now(),
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot give badge %s to user: %v", badge.Slug, err)
			return nil, errorx.Unknown
		}

		// Another evaluation gave the same badge concurrently.
		if !created {
			continue
		}

		awarded = append(awarded, badge)
	}

	for _, badge := range awarded {
		common.PublishEvent(ctx, m.publisher, common.TopicBadgeAwarded, userID, map[string]any{
			"userId": userID,
			"badge":  badge.Slug,
			"tier":   badge.Tier,
		})
	}

	return awarded, nil
}

// TryScanAndGive evaluates badges of all given users after a committed
// change. Badges are a side effect, so failures are only logged.
func (m *Manager) TryScanAndGive(ctx context.Context, userIDs ...string) {
	for _, userID := range common.Dedup(userIDs) {
		if userID == "" {
			continue
		}

		if _, err := m.ScanAndGive(ctx, userID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot scan badges of user %s: %v", userID, err)
		}
	}
}
