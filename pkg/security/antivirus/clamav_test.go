package antivirus_test

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"care-recruitment-backend/pkg/security/antivirus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd accepts one connection, reads an INSTREAM upload and replies.
func fakeClamd(t *testing.T, reply func(payload []byte) string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		if _, err := r.ReadString(0); err != nil {
			return
		}
		var payload []byte
		for {
			var size uint32
			if err := binary.Read(r, binary.BigEndian, &size); err != nil {
				return
			}
			if size == 0 {
				break
			}
			chunk := make([]byte, size)
			if _, err := io.ReadFull(r, chunk); err != nil {
				return
			}
			payload = append(payload, chunk...)
		}
		_, _ = conn.Write([]byte(reply(payload) + "\x00"))
	}()

	return ln.Addr().String()
}

func TestClamAVScanner_Clean(t *testing.T) {
	addr := fakeClamd(t, func(payload []byte) string {
		assert.Equal(t, "%PDF-1.4", string(payload))
		return "stream: OK"
	})

	res := antivirus.NewClamAVScanner(addr, time.Second).Scan(context.Background(), "a.pdf", []byte("%PDF-1.4"))
	assert.False(t, res.Infected)
	assert.NoError(t, res.Error)
	assert.Equal(t, "clamav", res.ScannerName)
}

func TestClamAVScanner_Infected(t *testing.T) {
	addr := fakeClamd(t, func([]byte) string {
		return "stream: Eicar-Signature FOUND"
	})

	res := antivirus.NewClamAVScanner(addr, time.Second).Scan(context.Background(), "a.pdf", []byte("X5O!P%@AP"))
	assert.True(t, res.Infected)
	assert.Equal(t, "Eicar-Signature", res.ThreatName)
}

func TestClamAVScanner_FailsClosed(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	res := antivirus.NewClamAVScanner(addr, time.Second).Scan(context.Background(), "a.pdf", []byte("%PDF"))
	assert.True(t, res.Infected)
	assert.Error(t, res.Error)
}

func TestNoOpScanner(t *testing.T) {
	res := antivirus.NewNoOpScanner().Scan(context.Background(), "a.pdf", nil)
	assert.False(t, res.Infected)
	assert.Equal(t, "noop", res.ScannerName)
}
