package http

const (
	ErrCodeNotReady = "OPS_5030"

	errMsgNotReady = "metrics pipeline is not accepting records"
)
