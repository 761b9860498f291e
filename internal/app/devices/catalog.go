// Package devices keeps the enumerated capture/render devices and the
// current selection per category.
package devices

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

type Catalog struct {
	source core.DeviceSource

	mu       sync.RWMutex
	list     domain.DeviceList
	selected domain.Selections
}

func NewCatalog(source core.DeviceSource) *Catalog {
	return &Catalog{source: source}
}

// Refresh enumerates devices and reconciles selections: a selection that
// vanished falls back to the first entry of its category.
func (c *Catalog) Refresh(ctx context.Context) (domain.DeviceList, error) {
	capture, err := c.source.EnumerateCaptureDevices(ctx)
	if err != nil {
		return domain.DeviceList{}, fmt.Errorf("enumerate capture devices: %w", err)
	}

	var list domain.DeviceList
	for _, d := range capture {
		switch d.Category {
		case domain.Camera:
			list.Cameras = append(list.Cameras, d)
		case domain.Microphone:
			list.Microphones = append(list.Microphones, d)
		}
	}

	if rs, ok := c.source.(core.RenderDeviceSource); ok {
		speakers, err := rs.EnumerateRenderDevices(ctx)
		if err != nil {
			log.Warn().Str("module", "app.devices").Err(err).Msg("render enumeration failed, no speakers")
		} else {
			list.Speakers = speakers
		}
	}

	c.mu.Lock()
	c.list = list
	c.selected = domain.Selections{
		Camera:     reconcile(list.Cameras, c.selected.Camera),
		Microphone: reconcile(list.Microphones, c.selected.Microphone),
		Speaker:    reconcile(list.Speakers, c.selected.Speaker),
	}
	sel := c.selected
	c.mu.Unlock()

	log.Info().Str("module", "app.devices").
		Int("cameras", len(list.Cameras)).
		Int("microphones", len(list.Microphones)).
		Int("speakers", len(list.Speakers)).
		Str("camera", sel.Camera).
		Str("microphone", sel.Microphone).
		Str("speaker", sel.Speaker).
		Msg("devices enumerated")
	return list, nil
}

// Select validates id against the last enumeration and records it.
func (c *Catalog) Select(category domain.DeviceCategory, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !contains(c.list.Of(category), id) {
		return fmt.Errorf("%s %q: %w", category, id, domain.ErrUnknownDevice)
	}
	switch category {
	case domain.Camera:
		c.selected.Camera = id
	case domain.Microphone:
		c.selected.Microphone = id
	case domain.Speaker:
		c.selected.Speaker = id
	}
	return nil
}

func (c *Catalog) List() domain.DeviceList {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list
}

func (c *Catalog) Selections() domain.Selections {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

func reconcile(list []domain.Device, current string) string {
	if current != "" && contains(list, current) {
		return current
	}
	if len(list) == 0 {
		return ""
	}
	return list[0].ID
}

func contains(list []domain.Device, id string) bool {
	for _, d := range list {
		if d.ID == id {
			return true
		}
	}
	return false
}
