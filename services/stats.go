package services

import (
	"sync"
	"time"

	"blaze-rewards-service/models"

	"gorm.io/gorm"
)

// StatsService derives the admin dashboard aggregates. Strictly read-only
// over the user, completion and invite tables (the coin snapshots it reads
// are written by the snapshot scheduler, never here).
//
// Every computation is a full scan — O(n) over users plus the trailing-24h
// completion and invite rows. At the current scale that is fine; results are
// memoized for a short window so dashboard refreshes don't repeat the scans.
type StatsService struct {
	DB *gorm.DB

	mu       sync.Mutex
	cached   *AdminStats
	cachedAt time.Time
	ttl      time.Duration
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db, ttl: 5 * time.Minute}
}

// GrowthPoint is one daily bucket of a growth series. Days are UTC calendar
// days, so the buckets are deterministic regardless of server timezone.
type GrowthPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Total int64  `json:"total"`
}

// AdminStats is the dashboard payload.
type AdminStats struct {
	TotalUsers      int64 `json:"totalUsers"`
	TotalBlazeCoins int64 `json:"totalBlazeCoins"`
	NewUsers24h     int64 `json:"newUsers24h"`
	ActiveUsers24h  int64 `json:"activeUsers24h"`

	UserGrowth   []GrowthPoint `json:"userGrowth"`
	InviteGrowth []GrowthPoint `json:"inviteGrowth"`
	CoinGrowth   []GrowthPoint `json:"coinGrowth"`
}

// AdminStats returns the aggregates, recomputing at most once per TTL window.
func (s *StatsService) AdminStats() (*AdminStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.cachedAt) < s.ttl {
		return s.cached, nil
	}

	stats, err := s.compute(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.cached = stats
	s.cachedAt = time.Now()
	return stats, nil
}

func (s *StatsService) compute(now time.Time) (*AdminStats, error) {
	stats := &AdminStats{}
	cutoff := now.Add(-24 * time.Hour)

	if err := s.DB.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.User{}).
		Select("COALESCE(SUM(coins), 0)").
		Scan(&stats.TotalBlazeCoins).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.User{}).
		Where("created_at >= ?", cutoff).
		Count(&stats.NewUsers24h).Error; err != nil {
		return nil, err
	}

	active, err := s.activeUsers(cutoff)
	if err != nil {
		return nil, err
	}
	stats.ActiveUsers24h = active

	stats.UserGrowth, err = s.cumulativeGrowth(&models.User{})
	if err != nil {
		return nil, err
	}
	stats.InviteGrowth, err = s.cumulativeGrowth(&models.Invite{})
	if err != nil {
		return nil, err
	}
	stats.CoinGrowth, err = s.coinGrowth(now, stats.TotalBlazeCoins)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// activeUsers counts distinct users with at least one completion or invite
// event (either side of the invite) after the cutoff.
func (s *StatsService) activeUsers(cutoff time.Time) (int64, error) {
	seen := map[int64]struct{}{}

	var completers []int64
	if err := s.DB.Model(&models.TaskCompletion{}).
		Where("completed_at >= ?", cutoff).
		Pluck("user_id", &completers).Error; err != nil {
		return 0, err
	}
	for _, id := range completers {
		seen[id] = struct{}{}
	}

	var invites []models.Invite
	if err := s.DB.Where("created_at >= ?", cutoff).Find(&invites).Error; err != nil {
		return 0, err
	}
	for _, inv := range invites {
		seen[inv.InviterID] = struct{}{}
		seen[inv.InvitedID] = struct{}{}
	}

	return int64(len(seen)), nil
}

// cumulativeGrowth buckets a table's created_at values into UTC days and
// accumulates, yielding a running total per day. Bucketing happens in Go to
// stay portable across the prod and test dialects.
func (s *StatsService) cumulativeGrowth(model interface{}) ([]GrowthPoint, error) {
	var times []time.Time
	if err := s.DB.Model(model).Order("created_at ASC").Pluck("created_at", &times).Error; err != nil {
		return nil, err
	}

	points := []GrowthPoint{}
	var total int64
	for _, ts := range times {
		day := ts.UTC().Format("2006-01-02")
		total++
		if n := len(points); n > 0 && points[n-1].Date == day {
			points[n-1].Total = total
		} else {
			points = append(points, GrowthPoint{Date: day, Total: total})
		}
	}
	return points, nil
}

// coinGrowth reads the daily snapshots and tops the series off with a live
// point for today.
func (s *StatsService) coinGrowth(now time.Time, liveTotal int64) ([]GrowthPoint, error) {
	var snaps []models.CoinSnapshot
	if err := s.DB.Order("day ASC").Find(&snaps).Error; err != nil {
		return nil, err
	}

	today := now.Format("2006-01-02")
	points := []GrowthPoint{}
	for _, snap := range snaps {
		if snap.Day == today {
			continue
		}
		points = append(points, GrowthPoint{Date: snap.Day, Total: snap.TotalCoins})
	}
	points = append(points, GrowthPoint{Date: today, Total: liveTotal})
	return points, nil
}
