package loggers

const (
	FieldApp        = "app"
	FieldComponent  = "component"
	FieldHttpMethod = "http_method"
	FieldHttpPath   = "http_path"
	FieldHttpStatus = "http_status"

	FieldDuration   = "duration"
	FieldRequestID  = "request_id"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"

	FieldIndex        = "index"
	FieldEventKind    = "event_kind"
	FieldBatchSize    = "batch_size"
	FieldFailedCount  = "failed_count"
	FieldQueueDepth   = "queue_depth"
	FieldQueueCap     = "queue_capacity"
	FieldFlushTrigger = "flush_trigger"
	FieldState        = "state"
	FieldObjectKey    = "object_key"
)
