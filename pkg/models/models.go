package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNoWirelessAdapter is returned when no adapter name carries the wireless prefix
	ErrNoWirelessAdapter = errors.New("no wireless interfaces found")
	// ErrNoIPv4Address is returned when wireless adapters exist but none has an IPv4 address bound
	ErrNoIPv4Address = errors.New("no IPv4 address bound to wireless interface")
)

// DiskUsage represents the usage of the volume containing a mount point
type DiskUsage struct {
	UsedGB      float64
	AvailableGB float64
	TotalGB     float64
	Percent     string // As reported by df, e.g. "50%"
}

// Adapter represents a network interface and its bound addresses
type Adapter struct {
	Name  string
	Addrs []string // Bare IPs or CIDR notation, in the order the OS reports them
}

// Snapshot holds the facts collected during a single tick.
// Each fact carries either a value or an error, never both.
type Snapshot struct {
	Disk    *DiskUsage
	DiskErr error

	Address    string
	NetworkErr error

	Clients    int
	ClientsErr error

	CollectedAt time.Time
}

// HasDisk reports whether disk usage was collected
func (s Snapshot) HasDisk() bool {
	return s.DiskErr == nil && s.Disk != nil
}

// HasAddress reports whether the network address was collected
func (s Snapshot) HasAddress() bool {
	return s.NetworkErr == nil && s.Address != ""
}

// HasClients reports whether the client count was collected
func (s Snapshot) HasClients() bool {
	return s.ClientsErr == nil
}

// DiskError is returned when disk usage cannot be determined
type DiskError struct {
	MountPoint string
	Output     string // Diagnostic output of the disk usage tool, if any
	Err        error
}

func (e *DiskError) Error() string {
	msg := fmt.Sprintf("disk usage for %s: %v", e.MountPoint, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ", output: " + out
	}
	return msg
}

func (e *DiskError) Unwrap() error {
	return e.Err
}

// NetworkError is returned when no wireless IPv4 address can be found
type NetworkError struct {
	Prefix string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network address (prefix %q): %v", e.Prefix, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ClientQueryError is returned by client count backends that fail to answer
type ClientQueryError struct {
	Err error
}

func (e *ClientQueryError) Error() string {
	return fmt.Sprintf("client count: %v", e.Err)
}

func (e *ClientQueryError) Unwrap() error {
	return e.Err
}
