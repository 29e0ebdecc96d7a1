package pipeline

import "log/slog"

// TrySend is a non-blocking send: if ch is full the value is dropped and
// a warning is logged rather than blocking the producer. logger may be
// nil in tests.
func TrySend[T any](ch chan<- T, v T, logger *slog.Logger, queueName string) (sent bool) {
	select {
	case ch <- v:
		return true
	default:
		if logger != nil {
			logger.Warn("pipeline:queue-full", slog.String("queue", queueName))
		}
		return false
	}
}

// TryRecv is a non-blocking receive.
func TryRecv[T any](ch <-chan T) (v T, ok bool) {
	select {
	case v = <-ch:
		return v, true
	default:
		return v, false
	}
}

// DrainLatest empties ch and returns only the most recently received value,
// which is how the processor keeps "only the most recent of each" queue on
// every tick per spec §4.7.
func DrainLatest[T any](ch <-chan T) (v T, ok bool) {
	for {
		next, got := TryRecv(ch)
		if !got {
			return v, ok
		}
		v, ok = next, true
	}
}
