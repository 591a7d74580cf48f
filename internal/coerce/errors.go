package coerce

import "errors"

// ErrUnclassifiable indicates a datapoint value that is neither boolean nor
// numeric. Datapoints have no string label slot, so such values are dropped.
var ErrUnclassifiable = errors.New("coerce: value is neither boolean nor numeric")
