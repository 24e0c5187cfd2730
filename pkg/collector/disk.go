package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/runningman84/status-display/pkg/models"
	"github.com/runningman84/status-display/pkg/parser"
	"k8s.io/klog/v2"
)

// logCommand logs the command being executed if debug mode is enabled
func (c *Collector) logCommand(cmdArgs []string) {
	if c.config.IsDebug() {
		klog.V(1).Infof(" Executing command: %v", cmdArgs)
	}
}

// logCommandResult logs the command result if debug mode is enabled
func (c *Collector) logCommandResult(exitCode int, stdout, stderr []byte) {
	if c.config.IsDebug() {
		klog.V(1).Infof(" Exit code: %d", exitCode)
		if len(stdout) > 0 {
			klog.V(1).Infof(" stdout: %s", string(stdout))
		}
		if len(stderr) > 0 {
			klog.V(1).Infof(" stderr: %s", string(stderr))
		}
	}
}

// DiskUsage runs the disk usage tool against a mount point
func (c *Collector) DiskUsage(ctx context.Context, mountPoint string) (*models.DiskUsage, error) {
	cmdArgs := c.config.DiskUsageCmd
	if len(cmdArgs) == 0 {
		return nil, &models.DiskError{MountPoint: mountPoint, Err: errors.New("no disk usage command configured")}
	}
	if !c.config.IsTestMode() {
		cmdArgs = append(append([]string{}, cmdArgs...), mountPoint)
	}
	c.logCommand(cmdArgs)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, cmdArgs[0], cmdArgs[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			exitCode = exitError.ExitCode()
		}
		c.logCommandResult(exitCode, stdout.Bytes(), stderr.Bytes())
		return nil, &models.DiskError{
			MountPoint: mountPoint,
			Output:     stderr.String(),
			Err:        fmt.Errorf("%s failed: %w", cmdArgs[0], err),
		}
	}
	c.logCommandResult(0, stdout.Bytes(), stderr.Bytes())

	usage, err := parser.ParseDiskUsage(stdout.Bytes())
	if err != nil {
		return nil, &models.DiskError{
			MountPoint: mountPoint,
			Output:     stderr.String(),
			Err:        fmt.Errorf("failed to parse %s output: %w", cmdArgs[0], err),
		}
	}

	return usage, nil
}
