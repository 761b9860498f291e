package core

import (
	"context"

	"github.com/aimaster-dev/healthBridge/internal/domain"
)

// DeviceSource enumerates capture devices (cameras and microphones).
type DeviceSource interface {
	EnumerateCaptureDevices(ctx context.Context) ([]domain.Device, error)
}

// RenderDeviceSource is an optional DeviceSource capability. Hosts that
// cannot list speakers simply do not implement it.
type RenderDeviceSource interface {
	EnumerateRenderDevices(ctx context.Context) ([]domain.Device, error)
}
