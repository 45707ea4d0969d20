// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

const probeTimeout = 2 * time.Second

// Probe is a named backing service reported on the stats page.
type Probe struct {
	Name string
	Ping func(ctx context.Context) error
}

type Handler struct {
	dbStats     func() sql.DBStats
	redisStats  func() *redis.PoolStats
	probes      []Probe
	marketplace MarketplaceStore
}

type HandlerConfig struct {
	DBStats     func() sql.DBStats
	RedisStats  func() *redis.PoolStats
	Probes      []Probe
	Marketplace MarketplaceStore
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:     cfg.DBStats,
		redisStats:  cfg.RedisStats,
		probes:      cfg.Probes,
		marketplace: cfg.Marketplace,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.GetSystemStats)
		r.Get("/db", h.GetDatabaseStats)
		r.Get("/redis", h.GetRedisStats)
		r.Get("/runtime", h.GetRuntimeStats)
		r.Get("/marketplace", h.GetMarketplaceStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	services := make([]ServiceStatus, 0, len(h.probes))
	for _, p := range h.probes {
		services = append(services, ServiceStatus{
			Name:    p.Name,
			Healthy: p.Ping != nil && p.Ping(ctx) == nil,
		})
	}

	core.OK(w, SystemStatsResponse{
		Services: services,
		Database: h.getDBStats(),
		Redis:    h.getRedisStats(),
		Runtime:  readRuntime(),
	})
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntime())
}

func (h *Handler) GetMarketplaceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.marketplace.Marketplace(r.Context(), topCourseLimit)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}

func readRuntime() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     mem.Alloc,
		MemSys:       mem.Sys,
		NumGC:        mem.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	s := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	s := h.redisStats()
	if s == nil {
		return nil
	}
	return &RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
	}
}

type SystemStatsResponse struct {
	Services []ServiceStatus `json:"services"`
	Database *DBPoolStats    `json:"database,omitempty"`
	Redis    *RedisPoolStats `json:"redis,omitempty"`
	Runtime  RuntimeStats    `json:"runtime"`
}

type ServiceStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc"`
	MemSys       uint64 `json:"mem_sys"`
	NumGC        uint32 `json:"num_gc"`
}
