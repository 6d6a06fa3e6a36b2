package health

import (
	"context"
	"fmt"
	"sync/atomic"

	"pricewatch_api/pkg/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreCheck does a trivial query round-trip against the store.
type StoreCheck struct {
	store Pinger
	log   logger.Logger
}

func NewStoreCheck(store Pinger, log logger.Logger) *StoreCheck {
	return &StoreCheck{store: store, log: log}
}

func (c *StoreCheck) Name() string { return "database" }

func (c *StoreCheck) Check(ctx context.Context) Status {
	if err := c.store.Ping(ctx); err != nil {
		c.log.Warn("database_check_failed", "error", fmt.Errorf("%w: %v", ErrDependencyUnavailable, err).Error())
		return StatusDown
	}
	return StatusUp
}

// DiskCheck is UP while free space on path stays above minFree bytes.
type DiskCheck struct {
	stats   SystemStats
	path    string
	minFree uint64
	log     logger.Logger
}

func NewDiskCheck(stats SystemStats, path string, minFree uint64, log logger.Logger) *DiskCheck {
	return &DiskCheck{stats: stats, path: path, minFree: minFree, log: log}
}

func (c *DiskCheck) Name() string { return "disk" }

func (c *DiskCheck) Check(ctx context.Context) Status {
	usage, err := c.stats.DiskUsage(ctx, c.path)
	if err != nil {
		c.log.Warn("disk_check_failed", "path", c.path, "error", fmt.Errorf("%w: %v", ErrDependencyUnavailable, err).Error())
		return StatusDown
	}
	if usage.Free > c.minFree {
		return StatusUp
	}
	return StatusDown
}

// SyntheticCheck is the operator-toggleable "test" check. Each instance owns its flag.
type SyntheticCheck struct {
	failing atomic.Bool
}

func NewSyntheticCheck(failing bool) *SyntheticCheck {
	c := &SyntheticCheck{}
	c.failing.Store(failing)
	return c
}

func (c *SyntheticCheck) Name() string { return "test" }

func (c *SyntheticCheck) Check(context.Context) Status {
	return c.Status()
}

func (c *SyntheticCheck) Status() Status {
	if c.failing.Load() {
		return StatusDown
	}
	return StatusUp
}

// Toggle flips the check and returns its new status.
func (c *SyntheticCheck) Toggle() Status {
	for {
		old := c.failing.Load()
		if c.failing.CompareAndSwap(old, !old) {
			break
		}
	}
	return c.Status()
}
