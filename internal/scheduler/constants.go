package scheduler

// LogMsgTickDropped is logged when the worker queue rejects a scheduled job
const LogMsgTickDropped = "Worker queue full, dropping scheduled tick"
