package sshserver

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/algoquest/internal/app"
	"github.com/abhisek/algoquest/internal/logging"
)

func TestServeStopsOnCancel(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "host_key")
	s, err := New("127.0.0.1:0", keyPath, app.Options{SkipSplash: true}, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", s.Addr())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	require.NoError(t, err)
	banner := make([]byte, 4)
	_, err = conn.Read(banner)
	require.NoError(t, err)
	assert.Equal(t, "SSH-", string(banner))
	conn.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = os.Stat(keyPath)
	assert.NoError(t, err, "host key should be generated")
}
