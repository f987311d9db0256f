package sim

import (
	"fmt"
	"sync"

	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/ports"
)

// Device simulates a graphics device that can be lost and restored.
type Device struct {
	mu         sync.Mutex
	generation uint64
	live       map[domain.CameraID]*domain.CameraResources
	lost       bool
	notify     ports.DeviceNotify

	draws     map[domain.CameraID]int
	lastDraw  domain.DrawCall
	presents  int
	released  int
	presentFn func() error
}

var _ ports.Device = (*Device)(nil)

// NewDevice creates a healthy device.
func NewDevice() *Device {
	return &Device{
		live:  make(map[domain.CameraID]*domain.CameraResources),
		draws: make(map[domain.CameraID]int),
	}
}

func (d *Device) CreateCameraResources(camera domain.CameraID) (*domain.CameraResources, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lost {
		return nil, domain.ErrDeviceLost
	}
	d.generation++
	res := &domain.CameraResources{
		Camera:     camera,
		Generation: d.generation,
		Handle:     fmt.Sprintf("rt-%s-%d", camera, d.generation),
	}
	d.live[camera] = res
	return res, nil
}

func (d *Device) ReleaseCameraResources(res *domain.CameraResources) {
	if res == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.live[res.Camera] == res {
		delete(d.live, res.Camera)
	}
	d.released++
}

// Draw rejects resources that were released or invalidated by device loss.
func (d *Device) Draw(res *domain.CameraResources, call domain.DrawCall) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lost {
		return domain.ErrDeviceLost
	}
	if res == nil || d.live[res.Camera] != res {
		return domain.ErrResourceAbsent
	}
	d.draws[res.Camera]++
	d.lastDraw = call
	return nil
}

func (d *Device) Present() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lost {
		return domain.ErrDeviceLost
	}
	if d.presentFn != nil {
		if err := d.presentFn(); err != nil {
			return err
		}
	}
	d.presents++
	return nil
}

func (d *Device) RegisterDeviceNotify(notify ports.DeviceNotify) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notify = notify
}

// Lose invalidates every resource and notifies the registered receiver.
func (d *Device) Lose() {
	d.mu.Lock()
	d.lost = true
	d.live = make(map[domain.CameraID]*domain.CameraResources)
	notify := d.notify
	d.mu.Unlock()

	if notify != nil {
		notify.OnDeviceLost()
	}
}

// Restore recovers the device and notifies the registered receiver.
func (d *Device) Restore() {
	d.mu.Lock()
	d.lost = false
	notify := d.notify
	d.mu.Unlock()

	if notify != nil {
		notify.OnDeviceRestored()
	}
}

// FailPresent makes Present return the result of fn. A nil fn clears the override.
func (d *Device) FailPresent(fn func() error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.presentFn = fn
}

// Lost reports whether the device is lost.
func (d *Device) Lost() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lost
}

// Live returns the cameras with valid resources.
func (d *Device) Live() []domain.CameraID {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]domain.CameraID, 0, len(d.live))
	for id := range d.live {
		ids = append(ids, id)
	}
	return ids
}

// Draws returns how many draws were submitted for camera.
func (d *Device) Draws(camera domain.CameraID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draws[camera]
}

// LastDraw returns the most recent draw call.
func (d *Device) LastDraw() domain.DrawCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastDraw
}

// Presents returns how many frames were presented.
func (d *Device) Presents() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.presents
}

// Released returns how many resource sets were released.
func (d *Device) Released() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}
