package camera

// CameraDriverOption is a functional option for configuring a CameraDriver.
type CameraDriverOption func(*flyCameraDriver)

// WithMoveSpeed sets the translation speed.
//
// Parameters:
//   - speed: world units per second
//
// Returns:
//   - CameraDriverOption: functional option to set the move speed
func WithMoveSpeed(speed float32) CameraDriverOption {
	return func(d *flyCameraDriver) {
		d.moveSpeed = speed
	}
}

// WithTurnSpeed sets the rotation speed.
//
// Parameters:
//   - speed: radians per second
//
// Returns:
//   - CameraDriverOption: functional option to set the turn speed
func WithTurnSpeed(speed float32) CameraDriverOption {
	return func(d *flyCameraDriver) {
		d.turnSpeed = speed
	}
}
