package mqtt

import (
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/hm2prom/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "hm2prom-test",
		},
		QoS:   1,
		Topic: "hm2prom/status",
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// disconnectedClient builds a Client around a paho client that never connects.
func disconnectedClient(cfg config.MQTTConfig) *Client {
	opts := buildClientOptions(cfg)
	return &Client{
		client:  pahomqtt.NewClient(opts),
		options: opts,
		cfg:     cfg,
		topics:  NewTopics(cfg.Topic),
	}
}

// unusedPort returns a loopback port with nothing listening on it.
func unusedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestTopics(t *testing.T) {
	tests := []struct {
		base             string
		wantStatus       string
		wantAvailability string
	}{
		{"hm2prom/status", "hm2prom/status", "hm2prom/status/availability"},
		{"home/ccu/exporter/", "home/ccu/exporter", "home/ccu/exporter/availability"},
		{"", DefaultTopic, DefaultTopic + "/availability"},
		{"  ", DefaultTopic, DefaultTopic + "/availability"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			topics := NewTopics(tt.base)
			assert.Equal(t, tt.wantStatus, topics.Status())
			assert.Equal(t, tt.wantAvailability, topics.Availability())
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.MQTTAuthConfig{Username: "exporter", Password: "secret"}

	opts := buildClientOptions(cfg)

	require.Len(t, opts.Servers, 1)
	assert.Equal(t, "tcp://127.0.0.1:1883", opts.Servers[0].String())
	assert.Equal(t, "hm2prom-test", opts.ClientID)
	assert.Equal(t, "exporter", opts.Username)
	assert.Equal(t, "secret", opts.Password)
	assert.True(t, opts.CleanSession)
	assert.True(t, opts.AutoReconnect)
	assert.False(t, opts.ConnectRetry, "the initial connect must not retry in the background")
	assert.Equal(t, 5*time.Second, opts.MaxReconnectInterval)
	assert.Nil(t, opts.TLSConfig)
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883

	opts := buildClientOptions(cfg)

	assert.Equal(t, "ssl", opts.Servers[0].Scheme)
	require.NotNil(t, opts.TLSConfig)
	assert.Equal(t, uint16(tlsMinVersion), opts.TLSConfig.MinVersion)
}

func TestBuildClientOptions_AnonymousAuth(t *testing.T) {
	opts := buildClientOptions(testConfig())
	assert.Empty(t, opts.Username)
	assert.Empty(t, opts.Password)
}

func TestConfigureLWT(t *testing.T) {
	opts := pahomqtt.NewClientOptions()
	configureLWT(opts, NewTopics("hm2prom/status"), "hm2prom-test")

	require.True(t, opts.WillEnabled)
	assert.Equal(t, "hm2prom/status/availability", opts.WillTopic)
	assert.True(t, opts.WillRetained)
	assert.Equal(t, byte(1), opts.WillQos)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(opts.WillPayload, &payload))
	assert.Equal(t, "offline", payload["status"])
	assert.Equal(t, "unexpected_disconnect", payload["reason"])
}

func TestBuildAvailabilityPayload(t *testing.T) {
	var online map[string]string
	require.NoError(t, json.Unmarshal([]byte(buildAvailabilityPayload("online", "", "c1")), &online))
	assert.NotContains(t, online, "reason")
	assert.Equal(t, "c1", online["client_id"])
	assert.NotEmpty(t, online["timestamp"])

	// Client IDs are quoted, not spliced
	raw := buildAvailabilityPayload("offline", "graceful_shutdown", `a"b`)
	assert.True(t, json.Valid([]byte(raw)), "payload not valid JSON: %s", raw)
}

func TestPublishValidation(t *testing.T) {
	c := disconnectedClient(testConfig())

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"invalid qos", "t", []byte("x"), 3, ErrInvalidQoS},
		{"oversized", "t", make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
		{"disconnected", "t", []byte("x"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, true)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPublishStatus_Disconnected(t *testing.T) {
	c := disconnectedClient(testConfig())

	err := c.PublishStatus(map[string]int{"channels": 3})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestPublishStatus_Unencodable(t *testing.T) {
	c := disconnectedClient(testConfig())

	err := c.PublishStatus(map[string]any{"bad": make(chan int)})
	require.ErrorIs(t, err, ErrPublishFailed)
	assert.Contains(t, err.Error(), "encoding status")
}

func TestCloseNil(t *testing.T) {
	var c *Client
	assert.NoError(t, c.Close())
	assert.NoError(t, (&Client{}).Close())
}

func TestIsConnected_InitialState(t *testing.T) {
	assert.False(t, disconnectedClient(testConfig()).IsConnected())
}

func TestConnect_BrokerRefused(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.Port = unusedPort(t)

	client, err := Connect(cfg)
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

// A failed Connect must leave nothing dialling: once a listener appears on
// the broker port, no CONNECT packet may arrive.
func TestConnect_FailureStopsClient(t *testing.T) {
	cfg := testConfig()
	port := unusedPort(t)
	cfg.Broker.Port = port
	cfg.Reconnect = config.MQTTReconnectConfig{InitialDelay: 1, MaxDelay: 1}

	_, err := Connect(cfg)
	require.ErrorIs(t, err, ErrConnectionFailed)

	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, acceptErr := ln.Accept()
		if acceptErr == nil {
			accepted <- conn
		}
	}()

	select {
	case conn := <-accepted:
		conn.Close()
		t.Fatal("client kept dialling after Connect failed")
	case <-time.After(3 * time.Second):
	}
}

func TestSetOnConnect_InvokedByConnectHandler(t *testing.T) {
	c := disconnectedClient(testConfig())

	calls := 0
	c.SetOnConnect(func() { calls++ })
	c.handleConnect()

	assert.Equal(t, 1, calls)
}

func TestHandleDisconnect_ClearsState(t *testing.T) {
	c := disconnectedClient(testConfig())
	c.connected = true

	c.handleDisconnect(errors.New("EOF"))

	assert.False(t, c.IsConnected())
}
