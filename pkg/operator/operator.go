package operator

import (
	"context"
	"fmt"
	"time"

	"github.com/runningman84/status-display/pkg/config"
	"github.com/runningman84/status-display/pkg/display"
	"github.com/runningman84/status-display/pkg/models"
	"k8s.io/klog/v2"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// FactCollector produces one snapshot per call
type FactCollector interface {
	Snapshot(ctx context.Context, mountPoint string) models.Snapshot
}

// Operator owns the canvas and drives the collect, render, show cycle
type Operator struct {
	config    *config.Config
	collector FactCollector
	renderer  *display.Renderer
	transport display.Transport
	canvas    *image1bit.VerticalLSB
	tickCount int // Number of completed ticks
}

// NewOperator creates a new operator instance
func NewOperator(cfg *config.Config, collector FactCollector, renderer *display.Renderer, transport display.Transport) *Operator {
	return &Operator{
		config:    cfg,
		collector: collector,
		renderer:  renderer,
		transport: transport,
		canvas:    display.NewCanvas(cfg.Width, cfg.Height),
	}
}

// Run clears the display, then collects and renders once per interval
// until ctx is cancelled. Only transport failures are returned.
func (o *Operator) Run(ctx context.Context) error {
	o.logConfig()

	if err := o.transport.Clear(); err != nil {
		return fmt.Errorf("failed to clear display: %w", err)
	}

	for {
		if _, err := o.Tick(ctx); err != nil {
			return err
		}

		if o.config.Once {
			klog.Infof("Single tick completed")
			return nil
		}

		if err := o.wait(ctx); err != nil {
			klog.Infof("Stopping after %d tick(s): %v", o.tickCount, err)
			return nil
		}
	}
}

// Tick collects one snapshot, renders it and pushes the canvas to the display
func (o *Operator) Tick(ctx context.Context) (models.Snapshot, error) {
	snap := o.collector.Snapshot(ctx, o.config.MountPoint)

	if snap.DiskErr != nil {
		klog.Warningf("Disk usage unavailable: %v", snap.DiskErr)
	}
	if snap.NetworkErr != nil {
		klog.Warningf("Network address unavailable: %v", snap.NetworkErr)
	}
	if snap.ClientsErr != nil {
		klog.Warningf("Client count unavailable: %v", snap.ClientsErr)
	}

	o.renderer.Render(o.canvas, snap)

	if err := o.transport.Show(o.canvas); err != nil {
		return snap, fmt.Errorf("failed to show frame: %w", err)
	}

	o.tickCount++
	if snap.HasDisk() {
		klog.Infof("Tick %d: disk %.1f/%.1f GB (%s), address %q, %d client(s)",
			o.tickCount, snap.Disk.UsedGB, snap.Disk.TotalGB, snap.Disk.Percent, snap.Address, snap.Clients)
	} else {
		klog.Infof("Tick %d: disk unavailable, address %q, %d client(s)", o.tickCount, snap.Address, snap.Clients)
	}

	return snap, nil
}

// wait blocks for one interval, returning early with ctx.Err() on cancellation
func (o *Operator) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(o.config.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (o *Operator) logConfig() {
	klog.Info("Current config")
	klog.Infof("Mode: %s", o.config.Mode)
	klog.Infof("Log level: %s", o.config.LogLevel)
	klog.Infof("Display size: %dx%d", o.config.Width, o.config.Height)
	klog.Infof("Mount point: %s", o.config.MountPoint)
	klog.Infof("Refresh interval: %s", o.config.Interval)
	klog.Infof("Interface prefix: %s", o.config.InterfacePrefix)
	klog.Infof("Disk usage command: %v", o.config.DiskUsageCmd)
	if o.config.Once {
		klog.Infof("Single tick mode enabled")
	}
}
