package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/hm2prom/internal/ccu"
	"github.com/nerrad567/hm2prom/internal/ccu/ccutest"
	"github.com/nerrad567/hm2prom/internal/poll"
)

type fakePublisher struct {
	published []poll.Status
	onConnect func()
}

func (f *fakePublisher) PublishStatus(v any) error {
	f.published = append(f.published, v.(poll.Status))
	return nil
}

func (f *fakePublisher) SetOnConnect(fn func()) { f.onConnect = fn }

// writeConfig writes a config file pointing at the fake controller.
func writeConfig(t *testing.T, ccuURL string, port int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(`
ccu:
  url: %q
  timeout: 5
poll:
  interval: 1
api:
  host: "127.0.0.1"
  port: %d
logging:
  level: error
  format: json
  output: stderr
`, ccuURL, port)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("HM2PROM_CONFIG", "")

	path, explicit := resolveConfigPath("")
	assert.Equal(t, defaultConfigPath, path)
	assert.False(t, explicit)

	path, explicit = resolveConfigPath("/etc/hm2prom.yaml")
	assert.Equal(t, "/etc/hm2prom.yaml", path)
	assert.True(t, explicit)

	t.Setenv("HM2PROM_CONFIG", "/srv/hm2prom.yaml")
	path, explicit = resolveConfigPath("")
	assert.Equal(t, "/srv/hm2prom.yaml", path)
	assert.True(t, explicit)

	// Flag wins over environment
	path, _ = resolveConfigPath("/flag.yaml")
	assert.Equal(t, "/flag.yaml", path)
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "hm2prom "+version)
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"unexpected"})

	assert.Error(t, cmd.Execute())
}

func TestRun_MissingExplicitConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, &options{configPath: "/nonexistent/path/config.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestRunOnce(t *testing.T) {
	srv := ccutest.NewServer(t)
	opts := &options{configPath: writeConfig(t, srv.URL, 9110), once: true}

	var out bytes.Buffer
	require.NoError(t, runOnce(context.Background(), opts, &out))

	body := out.String()
	assert.Contains(t, body, "# TYPE hm2prom_states gauge")
	assert.Contains(t, body, `datapoint_ise_id="1005"`)
	assert.Contains(t, body, `channel_rooms="Kitchen,Living"`)
	assert.Contains(t, body, `sysvar_value_string="Sunny"`)
	assert.NotContains(t, body, `datapoint_ise_id="1008"`)
	assert.Contains(t, body, "hm2prom_inventory_entities")
	// Runtime collectors are only registered when serving
	assert.NotContains(t, body, "go_goroutines")
}

func TestRunOnce_InventoryFailure(t *testing.T) {
	srv := ccutest.NewServer(t)
	srv.Fail(ccu.DocRooms, http.StatusInternalServerError)
	opts := &options{configPath: writeConfig(t, srv.URL, 9110), once: true}

	err := runOnce(context.Background(), opts, io.Discard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, poll.ErrInventory))
}

func TestRun_InventoryFailure(t *testing.T) {
	srv := ccutest.NewServer(t)
	srv.Fail(ccu.DocDevices, http.StatusInternalServerError)
	opts := &options{configPath: writeConfig(t, srv.URL, freePort(t))}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := run(ctx, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, poll.ErrInventory))
}

func TestRun_ServesMetrics(t *testing.T) {
	srv := ccutest.NewServer(t)
	port := freePort(t)
	opts := &options{configPath: writeConfig(t, srv.URL, port)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, opts) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 50*time.Millisecond)

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return strings.Contains(string(body), `datapoint_ise_id="2002"`)
	}, 10*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestAttachPublisher(t *testing.T) {
	srv := ccutest.NewServer(t)
	ex, err := newExporter(&options{configPath: writeConfig(t, srv.URL, 9110)}, true)
	require.NoError(t, err)

	pub := &fakePublisher{}
	attachPublisher(ex.loop, pub, ex.log)
	require.NotNil(t, pub.onConnect)

	// A reconnect before the inventory exists publishes nothing
	pub.onConnect()
	assert.Empty(t, pub.published)

	require.NoError(t, ex.loop.Init(context.Background()))
	ex.loop.RunCycle(context.Background())
	require.Len(t, pub.published, 2)
	assert.Equal(t, uint64(1), pub.published[1].Cycles)

	pub.onConnect()
	require.Len(t, pub.published, 3)
	assert.Equal(t, pub.published[1], pub.published[2])
}

// An unreachable broker must neither stop the exporter nor delay /health.
func TestRun_MQTTUnavailable(t *testing.T) {
	srv := ccutest.NewServer(t)
	port := freePort(t)
	path := writeConfig(t, srv.URL, port)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = fmt.Fprintf(f, "mqtt:\n  enabled: true\n  broker:\n    host: \"127.0.0.1\"\n    port: %d\n", freePort(t))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, &options{configPath: path}) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	var status map[string]any
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/status")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		status = nil
		if json.NewDecoder(resp.Body).Decode(&status) != nil {
			return false
		}
		return status["ready"] == true
	}, 15*time.Second, 50*time.Millisecond)

	assert.NotContains(t, status, "mqtt_connected")
	controller, ok := status["controller"].(map[string]any)
	require.True(t, ok, "status = %v", status)
	assert.Equal(t, true, controller["reachable"])
	assert.Equal(t, srv.URL, controller["url"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
