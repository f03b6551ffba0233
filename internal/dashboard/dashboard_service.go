package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"go-fleet/internal/driver"
	"go-fleet/internal/fuellog"
	"go-fleet/internal/maintenance"
	"go-fleet/internal/shared/contextutil"
	"go-fleet/internal/shared/metrics"
	"go-fleet/internal/trip"
	"go-fleet/internal/vehicle"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	StatsKeyPrefix = "dashboard:stats:"

	DefaultTTL = 30 * time.Second

	recentLimit = 5
	chartMonths = 6
	cacheName   = "dashboard"

	// fillTimeout bounds a shared cache fill, which outlives the request
	// that started it.
	fillTimeout = 15 * time.Second
)

func GetStatsKey(tenantID string) string {
	return StatsKeyPrefix + tenantID
}

type Service interface {
	Stats(ctx context.Context, tenantID string) (StatsResponse, error)
	PublicStats(ctx context.Context) (PublicStats, error)
	Invalidate(ctx context.Context, tenantID string) error
}

// Sources are the tenant-scoped repositories the aggregates are read from.
type Sources struct {
	Vehicles    vehicle.Repository
	Drivers     driver.Repository
	Trips       trip.Repository
	Maintenance maintenance.Repository
	FuelLogs    fuellog.Repository
}

type service struct {
	src    Sources
	repo   Repository
	rdb    *redis.Client
	ttl    time.Duration
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(src Sources, repo Repository, rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &service{
		src:    src,
		repo:   repo,
		rdb:    rdb,
		ttl:    ttl,
		sf:     &singleflight.Group{},
		now:    time.Now,
		logger: l,
	}
}

func (s *service) Stats(ctx context.Context, tenantID string) (StatsResponse, error) {
	cacheKey := GetStatsKey(tenantID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp StatsResponse
			if json.Unmarshal(cached, &resp) == nil {
				metrics.CacheLookups.WithLabelValues(cacheName, "hit").Inc()
				return resp, nil
			}
		}
		metrics.CacheLookups.WithLabelValues(cacheName, "miss").Inc()
	}

	// Callers waiting on the same key share this fill, so it must not die
	// with whichever request happened to start it.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fillTimeout)
		defer cancel()

		resp, err := s.aggregate(fillCtx, tenantID)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(fillCtx, cacheKey, data, s.ttl).Err(); err != nil {
					s.logger.Warn("cache dashboard stats failed",
						zap.String("tenant_id", tenantID),
						zap.Error(err),
					)
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("aggregate dashboard stats failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return StatsResponse{}, err
	}

	return v.(StatsResponse), nil
}

func (s *service) aggregate(ctx context.Context, tenantID string) (StatsResponse, error) {
	var (
		vehicles, drivers, trips map[string]int64
		pending                  int64
		recentTrips              []trip.Trip
		recentFuel               []fuellog.FuelLog
		monthlyTrips             []trip.MonthlyCount
		monthlyFuel              []fuellog.MonthlyTotal
	)
	since := s.now().UTC().AddDate(0, -chartMonths, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		vehicles, err = s.src.Vehicles.CountByStatus(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		drivers, err = s.src.Drivers.CountByStatus(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		trips, err = s.src.Trips.CountByStatus(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.src.Maintenance.CountPending(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		recentTrips, err = s.src.Trips.Recent(gctx, tenantID, recentLimit)
		return err
	})
	g.Go(func() (err error) {
		recentFuel, err = s.src.FuelLogs.Recent(gctx, tenantID, recentLimit)
		return err
	})
	g.Go(func() (err error) {
		monthlyTrips, err = s.src.Trips.MonthlyCounts(gctx, tenantID, since)
		return err
	})
	g.Go(func() (err error) {
		monthlyFuel, err = s.src.FuelLogs.MonthlyTotals(gctx, tenantID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return StatsResponse{}, err
	}

	resp := StatsResponse{
		Stats: Stats{
			Vehicles: VehicleStats{
				Total:       sum(vehicles),
				Active:      vehicles[vehicle.StatusActive],
				Idle:        vehicles[vehicle.StatusIdle],
				Maintenance: vehicles[vehicle.StatusMaintenance],
			},
			Drivers: DriverStats{
				Total:     sum(drivers),
				Available: drivers[driver.StatusAvailable],
				OnTrip:    drivers[driver.StatusOnTrip],
			},
			Trips: TripStats{
				Total:     sum(trips),
				Active:    trips[trip.StatusInProgress],
				Completed: trips[trip.StatusCompleted],
			},
			Maintenance: MaintenanceStats{Pending: pending},
		},
		Charts: Charts{
			MonthlyFuel:  make([]MonthlyFuel, len(monthlyFuel)),
			MonthlyTrips: monthlyTrips,
		},
		Recent: Recent{
			Trips:    make([]trip.TripResponse, len(recentTrips)),
			FuelLogs: make([]fuellog.FuelLogResponse, len(recentFuel)),
		},
	}
	if resp.Charts.MonthlyTrips == nil {
		resp.Charts.MonthlyTrips = []trip.MonthlyCount{}
	}
	for i, m := range monthlyFuel {
		resp.Charts.MonthlyFuel[i] = MonthlyFuel{
			Year:          m.Year,
			Month:         m.Month,
			TotalCost:     m.TotalCost.Round(2).InexactFloat64(),
			TotalQuantity: m.TotalQuantity.InexactFloat64(),
			Count:         m.Count,
		}
	}
	for i, t := range recentTrips {
		resp.Recent.Trips[i] = trip.MapToResponse(t)
	}
	for i, l := range recentFuel {
		resp.Recent.FuelLogs[i] = fuellog.MapToResponse(l)
	}
	return resp, nil
}

func sum(counts map[string]int64) int64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	return total
}

func (s *service) PublicStats(ctx context.Context) (PublicStats, error) {
	var out PublicStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Tenants, err = s.repo.CountActiveTenants(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Vehicles, err = s.repo.CountActiveVehicles(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.ActiveTrips, err = s.repo.CountTripsInProgress(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("aggregate public stats failed", zap.Error(err))
		return PublicStats{}, err
	}
	return out, nil
}

// Invalidate drops the tenant's cached aggregates. A nil client is a no-op.
func (s *service) Invalidate(ctx context.Context, tenantID string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, GetStatsKey(tenantID)).Err()
}
