// Package metrics owns the Prometheus families exported by hm2prom.
//
// # Data Families
//
//   - hm2prom_states: one series per datapoint, labelled with the datapoint,
//     its channel, the channel's rooms and functions, and the parent device
//     (17 labels)
//   - hm2prom_sysvar: one series per system variable; text values travel in
//     the sysvar_value_string label
//   - hm2prom_rssi_rx / hm2prom_rssi_tx: registered, currently never populated
//
// Every publish overwrites the series with the exact same label values.
// When a label value changes (a channel is renamed, moved to another room)
// a new series appears and the old one goes stale in the backend. Series
// are never deleted while the process runs.
//
// An opaque system variable materialises its series without calling Set,
// so the sample reads 0 and the payload is the label.
//
// # Self-Metrics
//
//	hm2prom_refresh_failures_total{document}
//	hm2prom_classification_failures_total{family}
//	hm2prom_entity_failures_total{family}
//	hm2prom_cycle_duration_seconds
//	hm2prom_last_refresh_success_timestamp_seconds{document}
//	hm2prom_inventory_entities{kind}
//
// # Usage
//
//	reg := prometheus.NewRegistry()
//	emitter, err := metrics.NewEmitter(reg)
//	if err != nil {
//	    return err
//	}
//	err = emitter.EmitDatapoint(cc, channelID, rec, value)
//
// Registration fails when a family is already present in the registry.
package metrics
