package crypt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"

	"github.com/aarsakian/ImageSanitizer/config"
	"github.com/aarsakian/ImageSanitizer/logger"
)

// Session is a scoped mapping of an encrypted container through the external
// disk encryption tool. Close releases the mapping and is safe to call more
// than once, callers defer it and may also close early before rewriting the
// container.
type Session struct {
	ContainerPath string
	DevicePath    string

	cfg    config.CryptConfig
	closed bool
	mu     sync.Mutex
}

// Open maps the container without mounting a filesystem and returns the
// decrypted device node for raw reads.
func Open(ctx context.Context, cfg config.CryptConfig, containerPath string, password string) (*Session, error) {
	session := &Session{ContainerPath: containerPath, cfg: cfg}

	args := []string{"--text", "--non-interactive",
		"--slot=" + strconv.Itoa(cfg.Slot),
		"--password=" + password,
		"--filesystem=none",
		"--protect-hidden=no",
		containerPath}
	if _, err := session.run(ctx, args); err != nil {
		return nil, fmt.Errorf("mapping container %s: %w", containerPath, err)
	}

	session.DevicePath = fmt.Sprintf("/dev/mapper/veracrypt%d", cfg.Slot)
	logger.SanitizerLogger.Info(fmt.Sprintf("container %s mapped at %s", containerPath, session.DevicePath))
	return session, nil
}

// DumpMetadata captures the textual region report of the container.
func (session *Session) DumpMetadata(ctx context.Context) ([]byte, error) {
	output, err := session.run(ctx, []string{"--text", "--non-interactive",
		"--volume-properties", "--slot=" + strconv.Itoa(session.cfg.Slot)})
	if err != nil {
		return nil, fmt.Errorf("dumping metadata of %s: %w", session.ContainerPath, err)
	}
	return output, nil
}

// Close unmaps the container. Guaranteed release belongs here, not to best
// effort cleanup in callers.
func (session *Session) Close(ctx context.Context) error {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return nil
	}
	session.closed = true

	_, err := session.run(ctx, []string{"--text", "--non-interactive",
		"--dismount", "--slot=" + strconv.Itoa(session.cfg.Slot)})
	if err != nil {
		return fmt.Errorf("unmapping container %s: %w", session.ContainerPath, err)
	}
	logger.SanitizerLogger.Info(fmt.Sprintf("container %s unmapped", session.ContainerPath))
	return nil
}

func (session *Session) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, session.cfg.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.SanitizerLogger.Error(fmt.Sprintf("%s failed: %s", session.cfg.Binary, stderr.String()))
		return nil, fmt.Errorf("%s: %w", session.cfg.Binary, err)
	}
	return stdout.Bytes(), nil
}
