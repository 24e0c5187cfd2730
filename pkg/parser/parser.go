package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/runningman84/status-display/pkg/models"
)

// KiBPerGB converts df's 1K-block counts to decimal gigabytes
const KiBPerGB = 976562.5

// diskFieldCount is the number of columns requested with --output=used,pcent,avail,size
const diskFieldCount = 4

// ParseDiskUsage parses the output of df --output=used,pcent,avail,size.
// The first line is a header; the second line holds the figures.
func ParseDiskUsage(data []byte) (*models.DiskUsage, error) {
	lines := strings.Split(string(data), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("expected header and data row, got %d line(s)", len(lines))
	}

	// Columns are padded to variable width, Fields drops the empty tokens
	fields := strings.Fields(lines[1])
	if len(fields) < diskFieldCount {
		return nil, fmt.Errorf("expected %d fields in data row, got %d: %q", diskFieldCount, len(fields), lines[1])
	}

	used, err := parseBlocks(fields[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse used: %w", err)
	}
	avail, err := parseBlocks(fields[2])
	if err != nil {
		return nil, fmt.Errorf("failed to parse available: %w", err)
	}
	size, err := parseBlocks(fields[3])
	if err != nil {
		return nil, fmt.Errorf("failed to parse size: %w", err)
	}

	return &models.DiskUsage{
		UsedGB:      KiBToGB(used),
		Percent:     fields[1],
		AvailableGB: KiBToGB(avail),
		TotalGB:     KiBToGB(size),
	}, nil
}

// KiBToGB converts a 1K-block count to gigabytes
func KiBToGB(kib uint64) float64 {
	return float64(kib) / KiBPerGB
}

func parseBlocks(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
