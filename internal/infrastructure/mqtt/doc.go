// Package mqtt publishes the exporter's status to an MQTT broker.
//
// Publishing is optional (mqtt.enabled) and informational only: the
// Prometheus exposition never depends on it. After every poll cycle the
// status document is published retained on the configured topic, so a
// dashboard subscribing later still sees the latest cycle.
//
// Topics, for the default base "hm2prom/status":
//
//	hm2prom/status               retained JSON status document
//	hm2prom/status/availability  retained online/offline marker (also the Last Will)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishStatus(loop.Status())
package mqtt
