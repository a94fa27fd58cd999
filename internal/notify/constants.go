package notify

// Redis keys
const (
	RedisKeyDue      = "missions:alerts:due"
	RedisKeyPayloads = "missions:alerts:payload"
)

// RedisDispatchBatch bounds how many alerts one dispatch pass claims
const RedisDispatchBatch = 256

// Log messages
const (
	LogMsgAlertScheduled      = "Alert scheduled"
	LogMsgAlertCancelled      = "Alert cancelled"
	LogMsgAlertFired          = "Alert fired"
	LogMsgAlertPayloadMissing = "Alert payload missing, skipping"
	LogMsgRedisConnected      = "Connected to Redis alert store"
)
