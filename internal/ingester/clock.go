package ingester

import "time"

type systemClock struct{}

// Timestamp return current UTC timestamp in milliseconds.
func (c systemClock) Timestamp() int64 {
	return time.Now().UTC().UnixMilli()
}
