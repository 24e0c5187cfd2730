package collector

import (
	"context"
	"time"

	"github.com/runningman84/status-display/pkg/config"
	"github.com/runningman84/status-display/pkg/models"
	"k8s.io/klog/v2"
)

// Collector gathers the facts shown on the display
type Collector struct {
	config   *config.Config
	adapters AdapterSource
	clients  ClientCounter
	now      func() time.Time
}

// NewCollector creates a collector backed by the host
func NewCollector(cfg *config.Config) *Collector {
	return &Collector{
		config:   cfg,
		adapters: HostAdapters{},
		clients:  StaticClientCounter{Count: 1},
		now:      time.Now,
	}
}

// WithAdapterSource replaces the source of network adapters
func (c *Collector) WithAdapterSource(src AdapterSource) *Collector {
	c.adapters = src
	return c
}

// WithClientCounter replaces the client count backend
func (c *Collector) WithClientCounter(counter ClientCounter) *Collector {
	c.clients = counter
	return c
}

// Snapshot collects all facts. A failing fact is recorded in its own
// error field and never prevents the others from being collected.
func (c *Collector) Snapshot(ctx context.Context, mountPoint string) models.Snapshot {
	snap := models.Snapshot{CollectedAt: c.now()}

	snap.Disk, snap.DiskErr = c.DiskUsage(ctx, mountPoint)
	if snap.DiskErr != nil {
		snap.Disk = nil
	}

	snap.Address, snap.NetworkErr = c.NetworkAddress(ctx)
	if snap.NetworkErr != nil {
		snap.Address = ""
	}

	snap.Clients, snap.ClientsErr = c.ClientCount(ctx)
	if snap.ClientsErr != nil {
		snap.Clients = 0
	}

	klog.V(1).Infof("Collected snapshot: disk=%v address=%q clients=%d", snap.HasDisk(), snap.Address, snap.Clients)
	return snap
}
