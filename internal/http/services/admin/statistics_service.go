package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dohkar/dohkar-api/internal/cache"
	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	dto "github.com/dohkar/dohkar-api/internal/http/dto/admin"
	"github.com/dohkar/dohkar-api/internal/metrics"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

const (
	statsCacheKey   = "admin:statistics"
	DefaultStatsTTL = time.Minute
	dailyStatsDays  = 7
)

// StatisticsService arma el dashboard del admin.
type StatisticsService interface {
	Get(ctx context.Context) (*dto.StatisticsResponse, error)
	Invalidate(ctx context.Context)
}

type statisticsService struct {
	stats repository.StatsRepository
	cache cache.Client
	ttl   time.Duration
	now   func() time.Time
}

func NewStatisticsService(d Deps) StatisticsService {
	s := &statisticsService{stats: d.Store.Stats(), cache: d.Cache, ttl: d.StatsTTL, now: d.Now}
	if s.ttl <= 0 {
		s.ttl = DefaultStatsTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *statisticsService) Get(ctx context.Context) (*dto.StatisticsResponse, error) {
	log := logger.Service(ctx, "admin.statistics", "Get")

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, statsCacheKey)
		if err == nil {
			var out dto.StatisticsResponse
			if err := json.Unmarshal(raw, &out); err == nil {
				metrics.StatsCache.WithLabelValues("hit").Inc()
				return &out, nil
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			log.Warn("stats cache read failed", logger.Err(err))
		}
		metrics.StatsCache.WithLabelValues("miss").Inc()
	}

	out, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, s.ttl); err != nil {
				log.Warn("stats cache write failed", logger.Err(err))
			}
		}
	}
	return out, nil
}

// compute lanza las cuatro consultas en paralelo.
func (s *statisticsService) compute(ctx context.Context) (*dto.StatisticsResponse, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(dailyStatsDays - 1))

	var (
		overview repository.Overview
		byType   map[types.PropertyType]int
		byRegion map[types.Region]int
		daily    []repository.DailyCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		overview, err = s.stats.Overview(gctx, now)
		return err
	})
	g.Go(func() (err error) {
		byType, err = s.stats.PropertiesByType(gctx)
		return err
	})
	g.Go(func() (err error) {
		byRegion, err = s.stats.PropertiesByRegion(gctx)
		return err
	})
	g.Go(func() (err error) {
		daily, err = s.stats.DailyProperties(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}

	out := &dto.StatisticsResponse{
		Overview: dto.Overview{
			TotalUsers:              overview.TotalUsers,
			TotalProperties:         overview.TotalProperties,
			ActiveProperties:        overview.ActiveProperties,
			PendingProperties:       overview.PendingProperties,
			TotalViews:              overview.TotalViews,
			PremiumUsers:            overview.PremiumUsers,
			NewUsersLast30Days:      overview.NewUsersLast30Days,
			NewPropertiesLast30Days: overview.NewPropertiesLast30Days,
		},
		PropertiesByType:   make([]dto.TypeCount, 0, len(types.AllPropertyTypes)),
		PropertiesByRegion: make([]dto.RegionCount, 0, len(types.AllRegions)),
		DailyStats:         make([]dto.DailyCount, 0, dailyStatsDays),
	}
	for _, t := range types.AllPropertyTypes {
		out.PropertiesByType = append(out.PropertiesByType, dto.TypeCount{Type: t, Count: byType[t]})
	}
	for _, r := range types.AllRegions {
		out.PropertiesByRegion = append(out.PropertiesByRegion, dto.RegionCount{Region: r, Count: byRegion[r]})
	}
	// días sin anuncios van con 0
	perDay := make(map[string]int, len(daily))
	for _, d := range daily {
		perDay[d.Date] = d.Count
	}
	for i := 0; i < dailyStatsDays; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		out.DailyStats = append(out.DailyStats, dto.DailyCount{Date: day, Count: perDay[day]})
	}
	return out, nil
}

func (s *statisticsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		logger.Service(ctx, "admin.statistics", "Invalidate").Warn("stats cache delete failed", logger.Err(err))
	}
}
