package antivirus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// ClamAVScanner streams files to a clamd daemon with zINSTREAM
type ClamAVScanner struct {
	address string        // TCP address (host:port) or Unix socket path
	timeout time.Duration // Connection and scan timeout
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner creates a ClamAV scanner
// address: TCP "localhost:3310" or Unix socket "/var/run/clamav/clamd.sock"
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{
		address: address,
		timeout: timeout,
	}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) network() string {
	if strings.HasPrefix(c.address, "/") {
		return "unix"
	}
	return "tcp"
}

// Scan sends data as a single chunk followed by the zero-length terminator.
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	result := ScanResult{ScannerName: c.Name()}
	fail := func(format string, err error) ScanResult {
		result.Infected = true
		result.Error = fmt.Errorf(format, err)
		return result
	}

	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, c.network(), c.address)
	if err != nil {
		return fail("failed to connect to clamd: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return fail("failed to send command: %w", err)
	}

	size := make([]byte, 4)
	binary.BigEndian.PutUint32(size, uint32(len(data)))
	if _, err := conn.Write(size); err != nil {
		return fail("failed to send size: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		return fail("failed to send file data: %w", err)
	}
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return fail("failed to send end marker: %w", err)
	}

	reply, err := io.ReadAll(io.LimitReader(conn, 1024))
	if err != nil {
		return fail("failed to read response: %w", err)
	}
	return parseReply(result, strings.TrimRight(string(reply), "\x00\n "))
}

// parseReply interprets clamd output:
// "stream: OK", "stream: <threat> FOUND", "stream: <message> ERROR"
func parseReply(result ScanResult, reply string) ScanResult {
	switch {
	case strings.HasSuffix(reply, "FOUND"):
		result.Infected = true
		if parts := strings.SplitN(reply, ":", 2); len(parts) == 2 {
			result.ThreatName = strings.TrimSuffix(strings.TrimSpace(parts[1]), " FOUND")
		}
	case strings.HasSuffix(reply, "OK"):
	default:
		result.Infected = true
		result.Error = fmt.Errorf("scan error: %s", reply)
	}
	return result
}
