package metrics

import "errors"

// ErrUnpublishable indicates a value that has no representation in the
// target metric family, such as opaque text for a datapoint.
var ErrUnpublishable = errors.New("metrics: value cannot be published")
