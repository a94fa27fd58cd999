package event

import "time"

// EventSchemaVersion is stamped on every mission event
const EventSchemaVersion = "1.0"

// Retry settings for ResilientPublisher
const (
	RetryQueueBufferSize = 1000

	// DefaultMaxRetries and DefaultRetryDelay give 2s, 4s, 8s, 16s, 32s
	DefaultMaxRetries = 5
	DefaultRetryDelay = 2 * time.Second

	// MaxRetryDelay caps a single backoff step
	MaxRetryDelay = time.Minute
)

// DeadLetterFilePermissions is the mode for newly created dead-letter files
const DeadLetterFilePermissions = 0644

// Log messages
const (
	LogMsgEventPublishFailed    = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull        = "Retry queue full, event dropped to dead-letter"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
	LogMsgEventDeadLettered     = "Event dead-lettered"
	LogMsgEventRetryExhausted   = "Event retry exhausted, writing to dead-letter"
	LogMsgEventRetryFailed      = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded   = "Event retry succeeded"
	LogMsgEventDroppedShutdown  = "Event dropped during shutdown"
	LogMsgQueueDrainedShutdown  = "Drained retry queue during shutdown"
	LogMsgShutdownTimeout       = "Resilient publisher shutdown timed out"

	LogMsgHandlerErrorFormat = "%d handler(s) failed for %s: %w"
)

// CalculateRetryDelay doubles baseDelay per attempt, starting at attempt 1,
// and never exceeds MaxRetryDelay.
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= MaxRetryDelay {
			return MaxRetryDelay
		}
	}
	return min(delay, MaxRetryDelay)
}
