package domain

import "errors"

var (
	// ErrAlreadyActive rejects a join while a session is not Disconnected.
	ErrAlreadyActive = errors.New("session already active")
	// ErrInvalidChannel rejects a join with an empty channel id.
	ErrInvalidChannel = errors.New("channel id is empty")
	// ErrConnectFailed wraps a transport join rejection.
	ErrConnectFailed = errors.New("connect failed")
	// ErrInterrupted reports a transport-level disconnect while connected.
	ErrInterrupted = errors.New("connection interrupted")
	// ErrJoinCancelled resolves a join that was left before it completed.
	ErrJoinCancelled = errors.New("join cancelled")
	// ErrMediaDevice wraps a local track create/publish failure.
	ErrMediaDevice = errors.New("media device error")
	// ErrUnknownDevice rejects selection of a device id that was not enumerated.
	ErrUnknownDevice = errors.New("unknown device")
	// ErrSubscribeFailed wraps a failed remote track subscription.
	ErrSubscribeFailed = errors.New("subscribe failed")
)
