package worker

// Log messages - worker pool
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
)

// Log messages - mission tick
const (
	LogMsgTickSkipped   = "Previous mission tick still running, skipping"
	LogMsgTickCompleted = "Mission tick completed"
)
