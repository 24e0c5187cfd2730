package collector

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	"github.com/runningman84/status-display/pkg/models"
	psnet "github.com/shirou/gopsutil/v4/net"
)

// AdapterSource enumerates the network adapters of the host
type AdapterSource interface {
	Adapters(ctx context.Context) ([]models.Adapter, error)
}

// HostAdapters lists the adapters of the running host via gopsutil
type HostAdapters struct{}

// Adapters returns every interface with its bound addresses, in kernel order
func (HostAdapters) Adapters(ctx context.Context) ([]models.Adapter, error) {
	stats, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	adapters := make([]models.Adapter, 0, len(stats))
	for _, stat := range stats {
		adapter := models.Adapter{Name: stat.Name}
		for _, addr := range stat.Addrs {
			adapter.Addrs = append(adapter.Addrs, addr.Addr)
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}

// NetworkAddress returns the first IPv4 address bound to a wireless adapter
func (c *Collector) NetworkAddress(ctx context.Context) (string, error) {
	prefix := c.config.InterfacePrefix

	adapters, err := c.adapters.Adapters(ctx)
	if err != nil {
		return "", &models.NetworkError{Prefix: prefix, Err: err}
	}

	addr, err := SelectIPv4(adapters, prefix)
	if err != nil {
		return "", &models.NetworkError{Prefix: prefix, Err: err}
	}
	return addr, nil
}

// SelectIPv4 walks adapters in order and returns the first IPv4 address
// of an adapter whose name starts with prefix.
func SelectIPv4(adapters []models.Adapter, prefix string) (string, error) {
	matched := false
	for _, adapter := range adapters {
		if !strings.HasPrefix(adapter.Name, prefix) {
			continue
		}
		matched = true

		for _, raw := range adapter.Addrs {
			ip, ok := parseAddr(raw)
			if ok && ip.Is4() {
				return ip.String(), nil
			}
		}
	}

	if !matched {
		return "", models.ErrNoWirelessAdapter
	}
	return "", models.ErrNoIPv4Address
}

// parseAddr accepts both "192.168.1.10" and "192.168.1.10/24"
func parseAddr(raw string) (netip.Addr, bool) {
	if prefix, err := netip.ParsePrefix(raw); err == nil {
		return prefix.Addr(), true
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr, true
}
