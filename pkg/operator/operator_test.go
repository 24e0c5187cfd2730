package operator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/runningman84/status-display/pkg/config"
	"github.com/runningman84/status-display/pkg/display"
	"github.com/runningman84/status-display/pkg/models"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// mockCollector hands out prepared snapshots in order, repeating the last one
type mockCollector struct {
	snapshots   []models.Snapshot
	calls       int
	mountPoints []string
	onCall      func(n int)
}

func (m *mockCollector) Snapshot(ctx context.Context, mountPoint string) models.Snapshot {
	m.calls++
	m.mountPoints = append(m.mountPoints, mountPoint)
	if m.onCall != nil {
		m.onCall(m.calls)
	}
	i := m.calls - 1
	if i >= len(m.snapshots) {
		i = len(m.snapshots) - 1
	}
	return m.snapshots[i]
}

// mockTransport records every frame pushed to it
type mockTransport struct {
	clears   int
	frames   []*image1bit.VerticalLSB
	clearErr error
	showErr  error
}

func (m *mockTransport) Clear() error {
	m.clears++
	return m.clearErr
}

func (m *mockTransport) Show(img image.Image) error {
	if m.showErr != nil {
		return m.showErr
	}
	frame := display.NewCanvas(img.Bounds().Dx(), img.Bounds().Dy())
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			frame.Set(x, y, img.At(x, y))
		}
	}
	m.frames = append(m.frames, frame)
	return nil
}

func (m *mockTransport) Close() error {
	return nil
}

func testConfig() *config.Config {
	cfg := config.NewConfig(config.ModeTest)
	cfg.Interval = time.Millisecond
	return cfg
}

func healthySnapshot() models.Snapshot {
	return models.Snapshot{
		Disk:    &models.DiskUsage{UsedGB: 5.12, TotalGB: 10.24, Percent: "50%"},
		Address: "192.168.4.1",
		Clients: 1,
	}
}

func newTestOperator(cfg *config.Config, collector FactCollector, transport display.Transport) *Operator {
	renderer := display.NewRenderer(cfg.Width, cfg.Height, display.NewFontDrawer())
	return NewOperator(cfg, collector, renderer, transport)
}

func TestNewOperator(t *testing.T) {
	cfg := testConfig()
	op := newTestOperator(cfg, &mockCollector{}, &mockTransport{})

	if op.config != cfg {
		t.Error("Operator config not properly set")
	}
	if got := op.canvas.Bounds(); got != image.Rect(0, 0, 128, 32) {
		t.Errorf("canvas bounds = %v, want 128x32", got)
	}
}

func TestTick(t *testing.T) {
	cfg := testConfig()
	cfg.MountPoint = "/media/usb"
	collector := &mockCollector{snapshots: []models.Snapshot{healthySnapshot()}}
	transport := &mockTransport{}
	op := newTestOperator(cfg, collector, transport)

	snap, err := op.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if snap.Address != "192.168.4.1" {
		t.Errorf("Tick() snapshot address = %q, want 192.168.4.1", snap.Address)
	}
	if len(collector.mountPoints) != 1 || collector.mountPoints[0] != "/media/usb" {
		t.Errorf("collector mount points = %v, want [/media/usb]", collector.mountPoints)
	}
	if len(transport.frames) != 1 {
		t.Fatalf("frames shown = %d, want 1", len(transport.frames))
	}
	if countLit(transport.frames[0]) == 0 {
		t.Error("shown frame is blank")
	}
	if op.tickCount != 1 {
		t.Errorf("tickCount = %d, want 1", op.tickCount)
	}
}

func TestTickWithFailedFacts(t *testing.T) {
	cfg := testConfig()
	failed := models.Snapshot{
		DiskErr:    &models.DiskError{MountPoint: "/", Err: errors.New("exit status 1")},
		NetworkErr: &models.NetworkError{Prefix: "wl", Err: models.ErrNoWirelessAdapter},
		Clients:    1,
	}
	transport := &mockTransport{}
	op := newTestOperator(cfg, &mockCollector{snapshots: []models.Snapshot{failed}}, transport)

	if _, err := op.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() with failed facts error = %v, want nil", err)
	}
	if len(transport.frames) != 1 {
		t.Fatalf("frames shown = %d, want 1", len(transport.frames))
	}
	if countLit(transport.frames[0]) == 0 {
		t.Error("fallback text was not drawn")
	}
}

func TestTickShowError(t *testing.T) {
	cfg := testConfig()
	transport := &mockTransport{showErr: errors.New("i2c: remote I/O error")}
	op := newTestOperator(cfg, &mockCollector{snapshots: []models.Snapshot{healthySnapshot()}}, transport)

	_, err := op.Tick(context.Background())
	if err == nil {
		t.Fatal("Tick() expected error from transport, got nil")
	}
	if !strings.Contains(err.Error(), "remote I/O error") {
		t.Errorf("Tick() error = %v, want transport error", err)
	}
	if op.tickCount != 0 {
		t.Errorf("tickCount = %d, want 0 after failed show", op.tickCount)
	}
}

func TestTickRepaintsFullCanvas(t *testing.T) {
	cfg := testConfig()
	long := healthySnapshot()
	long.Address = "192.168.100.200"
	short := healthySnapshot()
	short.Disk = nil
	short.DiskErr = errors.New("gone")
	short.Address = "10.0.0.1"

	transport := &mockTransport{}
	op := newTestOperator(cfg, &mockCollector{snapshots: []models.Snapshot{long, short}}, transport)

	for i := 0; i < 2; i++ {
		if _, err := op.Tick(context.Background()); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}

	// A fresh render of the second snapshot must match the second frame exactly
	want := display.NewCanvas(cfg.Width, cfg.Height)
	display.NewRenderer(cfg.Width, cfg.Height, display.NewFontDrawer()).Render(want, short)

	got := transport.frames[1]
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			if got.BitAt(x, y) != want.BitAt(x, y) {
				t.Fatalf("pixel (%d, %d) = %v, want %v: stale content from the previous tick", x, y, got.BitAt(x, y), want.BitAt(x, y))
			}
		}
	}
}

func TestRunOnce(t *testing.T) {
	cfg := testConfig()
	cfg.Once = true
	collector := &mockCollector{snapshots: []models.Snapshot{healthySnapshot()}}
	transport := &mockTransport{}
	op := newTestOperator(cfg, collector, transport)

	if err := op.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if transport.clears != 1 {
		t.Errorf("clears = %d, want 1", transport.clears)
	}
	if collector.calls != 1 || len(transport.frames) != 1 {
		t.Errorf("ticks = %d, frames = %d, want 1 and 1", collector.calls, len(transport.frames))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := &mockCollector{
		snapshots: []models.Snapshot{healthySnapshot()},
		onCall: func(n int) {
			if n == 3 {
				cancel()
			}
		},
	}
	transport := &mockTransport{}
	op := newTestOperator(cfg, collector, transport)

	done := make(chan error, 1)
	go func() { done <- op.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}

	if collector.calls != 3 {
		t.Errorf("ticks = %d, want 3", collector.calls)
	}
	if len(transport.frames) != 3 {
		t.Errorf("frames = %d, want 3", len(transport.frames))
	}
	if transport.clears != 1 {
		t.Errorf("clears = %d, want 1", transport.clears)
	}
}

func TestRunWaitsForInterval(t *testing.T) {
	cfg := testConfig()
	cfg.Interval = time.Hour
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	collector := &mockCollector{snapshots: []models.Snapshot{healthySnapshot()}}
	op := newTestOperator(cfg, collector, &mockTransport{})

	if err := op.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if collector.calls != 1 {
		t.Errorf("ticks = %d, want 1 within a single interval", collector.calls)
	}
}

func TestRunClearError(t *testing.T) {
	cfg := testConfig()
	collector := &mockCollector{snapshots: []models.Snapshot{healthySnapshot()}}
	op := newTestOperator(cfg, collector, &mockTransport{clearErr: errors.New("no device")})

	if err := op.Run(context.Background()); err == nil {
		t.Fatal("Run() expected error when clear fails, got nil")
	}
	if collector.calls != 0 {
		t.Errorf("ticks = %d, want 0 when the display cannot be cleared", collector.calls)
	}
}

func TestRunShowErrorIsFatal(t *testing.T) {
	cfg := testConfig()
	collector := &mockCollector{snapshots: []models.Snapshot{healthySnapshot()}}
	op := newTestOperator(cfg, collector, &mockTransport{showErr: errors.New("bus gone")})

	if err := op.Run(context.Background()); err == nil {
		t.Fatal("Run() expected error when show fails, got nil")
	}
	if collector.calls != 1 {
		t.Errorf("ticks = %d, want 1", collector.calls)
	}
}

func TestRunWithTextTransport(t *testing.T) {
	cfg := testConfig()
	cfg.Once = true
	var buf bytes.Buffer
	op := newTestOperator(cfg, &mockCollector{snapshots: []models.Snapshot{healthySnapshot()}}, display.NewTextTransport(&buf, cfg.Width, cfg.Height))

	if err := op.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// One blank frame from Clear, one rendered frame
	frames := strings.Count(buf.String(), "+"+strings.Repeat("-", cfg.Width)+"+\n")
	if frames != 4 {
		t.Errorf("frame borders = %d, want 4", frames)
	}
	if !strings.Contains(buf.String(), "#") {
		t.Error("rendered frame has no lit pixels")
	}
}

func countLit(img *image1bit.VerticalLSB) int {
	lit := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.BitAt(x, y) {
				lit++
			}
		}
	}
	return lit
}
