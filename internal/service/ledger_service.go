package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/observability"
	"github.com/lessonhub/lessonhub-api/internal/repository"
)

const leaderboardCacheKey = "leaderboard:top"

// RewardEvent is published to NATS whenever points move, so interested
// consumers (live leaderboard, activity feeds) can react without polling.
type RewardEvent struct {
	UserID      uint                     `json:"user_id"`
	Points      int                      `json:"points"`
	AmountEuro  float64                  `json:"amount_euro"`
	Reason      models.TransactionReason `json:"reason"`
	TotalPoints int                      `json:"total_points"`
	SentAt      time.Time                `json:"sent_at"`
}

// LedgerService is the reward-posting funnel plus the read side of the
// ledger. RecordReward is the ONLY path by which points enter the system:
// it appends the ledger row, bumps the denormalized total, and evaluates
// badge thresholds, all on the caller's transaction.
type LedgerService interface {
	RecordReward(ctx context.Context, tx *gorm.DB, entry *models.PointTransaction) (int, error)
	RecentActivity(ctx context.Context, userID uint, limit int) ([]dto.LedgerEntryResponse, error)
	Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
	Badges(ctx context.Context, userID uint) ([]dto.BadgeResponse, error)
}

type ledgerService struct {
	ledger      repository.LedgerRepository
	badges      repository.BadgeRepository
	users       repository.UserRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	natsConn    *nats.Conn
	natsSubject string
	logger      zerolog.Logger
}

// NewLedgerService constructs the ledger service. The redis client and NATS
// connection are optional; both degrade to no-ops when nil.
func NewLedgerService(ledger repository.LedgerRepository, badges repository.BadgeRepository, users repository.UserRepository, cache *redis.Client, cacheTTL time.Duration, natsConn *nats.Conn, logger zerolog.Logger) LedgerService {
	return &ledgerService{
		ledger:      ledger,
		badges:      badges,
		users:       users,
		cache:       cache,
		cacheTTL:    cacheTTL,
		natsConn:    natsConn,
		natsSubject: "lessonhub.rewards",
		logger:      logger.With().Str("component", "ledger_service").Logger(),
	}
}

func (s *ledgerService) RecordReward(ctx context.Context, tx *gorm.DB, entry *models.PointTransaction) (int, error) {
	ledger := s.ledger.WithTx(tx)

	if err := ledger.Record(ctx, entry); err != nil {
		return 0, err
	}

	total, err := s.totalPoints(ctx, tx, entry.UserID)
	if err != nil {
		return 0, err
	}

	total, err = s.awardBadges(ctx, tx, entry.UserID, total)
	if err != nil {
		return 0, err
	}

	observability.RewardsPosted().WithLabelValues(string(entry.Reason)).Inc()
	s.publishEvent(*entry, total)

	return total, nil
}

// awardBadges pays out every badge whose threshold the user just crossed.
// Bonus entries do not trigger a re-evaluation; a bonus that crosses the
// next threshold is picked up on the following reward.
func (s *ledgerService) awardBadges(ctx context.Context, tx *gorm.DB, userID uint, total int) (int, error) {
	badgeRepo := s.badges.WithTx(tx)
	ledger := s.ledger.WithTx(tx)

	earnable, err := badgeRepo.ListEarnable(ctx, userID, total)
	if err != nil {
		return total, err
	}

	for _, badge := range earnable {
		award := models.UserBadge{UserID: userID, BadgeID: badge.ID, AwardedAt: time.Now().UTC()}
		if err := badgeRepo.Award(ctx, &award); err != nil {
			return total, err
		}

		bonus := models.PointTransaction{
			UserID: userID,
			Points: badge.BonusPoints,
			Reason: models.ReasonBadgeBonus,
			Note:   fmt.Sprintf("badge:%s", badge.Code),
		}
		if err := ledger.Record(ctx, &bonus); err != nil {
			return total, err
		}
		total += badge.BonusPoints

		s.logger.Info().Uint("user_id", userID).Str("badge", badge.Code).Msg("badge awarded")
	}

	return total, nil
}

func (s *ledgerService) totalPoints(ctx context.Context, tx *gorm.DB, userID uint) (int, error) {
	var user models.User
	if err := tx.WithContext(ctx).First(&user, userID).Error; err != nil {
		return 0, err
	}
	return user.TotalPoints, nil
}

func (s *ledgerService) publishEvent(entry models.PointTransaction, total int) {
	if s.natsConn == nil {
		return
	}

	event := RewardEvent{
		UserID:      entry.UserID,
		Points:      entry.Points,
		AmountEuro:  entry.AmountEuro,
		Reason:      entry.Reason,
		TotalPoints: total,
		SentAt:      time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	if err := s.natsConn.Publish(s.natsSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish reward event")
	}
}

func (s *ledgerService) RecentActivity(ctx context.Context, userID uint, limit int) ([]dto.LedgerEntryResponse, error) {
	entries, err := s.ledger.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	return dto.NewLedgerEntryResponseSlice(entries), nil
}

func (s *ledgerService) Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var entries []dto.LeaderboardEntry
			if unmarshalErr := json.Unmarshal([]byte(cached), &entries); unmarshalErr == nil {
				s.logger.Debug().Msg("leaderboard cache hit")
				return entries, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
		}
	}

	users, err := s.users.ListTopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for idx, user := range users {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:        idx + 1,
			UserID:      user.ID,
			Name:        user.Name,
			TotalPoints: user.TotalPoints,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, leaderboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
			}
		}
	}

	return entries, nil
}

func (s *ledgerService) Badges(ctx context.Context, userID uint) ([]dto.BadgeResponse, error) {
	awards, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewBadgeResponseSlice(awards), nil
}
