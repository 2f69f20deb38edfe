package lz78

// Stats is a point-in-time snapshot of an engine's throughput counters.
type Stats struct {
	BytesIn  int64
	BytesOut int64
	CodesIn  int64
	CodesOut int64
	Swaps    int64
}
