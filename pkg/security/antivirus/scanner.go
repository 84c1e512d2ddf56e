package antivirus

import (
	"context"
)

// ScanResult contains the result of a malware scan
type ScanResult struct {
	Infected    bool   // True if malware was detected
	ThreatName  string // Name of detected threat (empty if clean)
	ScannerName string // Name of scanner that produced this result
	Error       error  // Any error that occurred during scanning
}

// Scanner checks uploaded documents before they are stored.
// A scan error is reported as Infected=true (fail closed).
type Scanner interface {
	Scan(ctx context.Context, filename string, data []byte) ScanResult
	Name() string
}

// NoOpScanner always returns clean. Used when no scanner is configured.
type NoOpScanner struct{}

var _ Scanner = (*NoOpScanner)(nil)

func NewNoOpScanner() *NoOpScanner {
	return &NoOpScanner{}
}

func (n *NoOpScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	return ScanResult{ScannerName: n.Name()}
}

func (n *NoOpScanner) Name() string {
	return "noop"
}
