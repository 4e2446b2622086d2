package camera

import (
	"github.com/Carmen-Shannon/maki-go/common"
	"github.com/Carmen-Shannon/maki-go/engine/input"
)

// CameraDriver advances a Camera once per frame from elapsed time and input.
type CameraDriver interface {
	// Update applies one frame's worth of movement to the bound camera.
	//
	// Parameters:
	//   - deltaTime: seconds elapsed since the previous frame
	Update(deltaTime float32)
}

// flyCameraDriver is a free-flight driver: translation along the camera's local
// axes and yaw/pitch rotation, both scaled by frame time.
type flyCameraDriver struct {
	camera Camera
	keys   input.KeyState

	moveSpeed float32 // world units per second
	turnSpeed float32 // radians per second
}

var _ CameraDriver = &flyCameraDriver{}

// NewCameraDriver creates a fly driver bound to cam and reading keys.
//
// Key bindings:
//   - W/S: forward/back, A/D: left/right, Space/LeftShift: up/down
//   - Q/E or Left/Right arrows: turn left/right
//   - Up/Down arrows: look up/down
//
// Parameters:
//   - cam: the camera to drive
//   - keys: the keyboard state to read each frame
//   - options: functional options to configure the driver
//
// Returns:
//   - CameraDriver: the newly created driver
func NewCameraDriver(cam Camera, keys input.KeyState, options ...CameraDriverOption) CameraDriver {
	d := &flyCameraDriver{
		camera:    cam,
		keys:      keys,
		moveSpeed: 5.0,
		turnSpeed: 1.5,
	}
	for _, option := range options {
		option(d)
	}
	return d
}

func (d *flyCameraDriver) Update(deltaTime float32) {
	if deltaTime <= 0 {
		return
	}

	var move [3]float32
	move[0] = d.axis(common.KeyD, common.KeyA)
	move[1] = d.axis(common.KeySpace, common.KeyLeftShift)
	move[2] = d.axis(common.KeyS, common.KeyW) // local -Z is forward

	yaw := d.axis(common.KeyE, common.KeyQ) + d.axis(common.KeyRight, common.KeyLeft)
	pitch := d.axis(common.KeyUp, common.KeyDown)

	// Untouched frames leave the camera's caches valid.
	if yaw != 0 || pitch != 0 {
		step := d.turnSpeed * deltaTime
		d.camera.Rotate(Angle{Horizontal: yaw * step, Vertical: pitch * step})
	}
	if move != [3]float32{} {
		d.camera.Move(common.Scale3(common.Normalize3(move), d.moveSpeed*deltaTime))
	}
}

// axis returns +1, -1 or 0 for a pair of opposing keys.
func (d *flyCameraDriver) axis(positive, negative uint32) float32 {
	var v float32
	if d.keys.Pressed(positive) {
		v++
	}
	if d.keys.Pressed(negative) {
		v--
	}
	return v
}
