// ABOUTME: Output device catalog
// ABOUTME: Enumerates playback sinks through miniaudio and resolves saved device ids
package device

import (
	"fmt"

	"github.com/gen2brain/malgo"
)

// Device is one playback sink
type Device struct {
	ID      string
	Name    string
	Default bool
}

// Label returns the display form used by pickers
func (d Device) Label() string {
	if d.Name == "" {
		return d.ID
	}
	if d.ID == "" {
		return d.Name
	}
	return fmt.Sprintf("%s (%s)", d.Name, d.ID)
}

// Catalog enumerates the available output sinks
type Catalog interface {
	Enumerate() ([]Device, error)
}

// MalgoCatalog lists playback devices of a miniaudio context
type MalgoCatalog struct {
	ctx *malgo.AllocatedContext
}

// NewMalgoCatalog creates a catalog over ctx
func NewMalgoCatalog(ctx *malgo.AllocatedContext) *MalgoCatalog {
	return &MalgoCatalog{ctx: ctx}
}

// Enumerate returns every playback device the backend reports
func (c *MalgoCatalog) Enumerate() ([]Device, error) {
	infos, err := c.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate playback devices: %w", err)
	}

	devices := make([]Device, 0, len(infos))
	for i := range infos {
		devices = append(devices, Device{
			ID:      infos[i].ID.String(),
			Name:    infos[i].Name(),
			Default: infos[i].IsDefault != 0,
		})
	}
	return devices, nil
}

// Find returns the device with the given id
func Find(devices []Device, id string) (Device, bool) {
	if id == "" {
		return Device{}, false
	}
	for _, d := range devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// Resolve returns id when it is enumerated, otherwise the first device.
// The second result reports whether id matched.
func Resolve(devices []Device, id string) (string, bool) {
	if d, ok := Find(devices, id); ok {
		return d.ID, true
	}
	if len(devices) == 0 {
		return "", false
	}
	return devices[0].ID, false
}

// Static is a fixed catalog for backends without enumeration
type Static []Device

// Enumerate returns the fixed list
func (s Static) Enumerate() ([]Device, error) {
	return []Device(s), nil
}
