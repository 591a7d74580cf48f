package mqtt

import "strings"

// DefaultTopic is used when no status topic is configured.
const DefaultTopic = "hm2prom/status"

// Topics derives the exporter's topics from the configured status topic.
//
//	topics := mqtt.NewTopics("hm2prom/status")
//	topics.Status()       // "hm2prom/status"
//	topics.Availability() // "hm2prom/status/availability"
type Topics struct {
	base string
}

// NewTopics returns topic builders rooted at base. Trailing slashes are
// removed; an empty base falls back to DefaultTopic.
func NewTopics(base string) Topics {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultTopic
	}
	return Topics{base: base}
}

// Status is where the retained exporter status document is published after
// every cycle.
func (t Topics) Status() string {
	return t.base
}

// Availability carries the online/offline marker, including the broker-sent
// Last Will when the exporter disappears without a clean shutdown.
func (t Topics) Availability() string {
	return t.base + "/availability"
}
