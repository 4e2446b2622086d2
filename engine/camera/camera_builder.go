package camera

// CameraBuilderOption is a functional option applied by NewCamera after the defaults.
type CameraBuilderOption func(*cameraImpl)

// WithType sets the projection type.
//
// Parameters:
//   - t: perspective or orthographic
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's projection type
func WithType(t CameraType) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetType(t)
	}
}

// WithFov sets the vertical field of view in radians, clamped to [MinFov, MaxFov].
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetFov(fov)
	}
}

// WithPosition sets the initial eye position.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetPosition([3]float32{x, y, z})
	}
}

// WithRotation sets the initial orientation.
//
// Parameters:
//   - horizontal: angle about the world up axis in radians
//   - vertical: angle above the horizon in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's orientation
func WithRotation(horizontal, vertical float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetRotation(Angle{Horizontal: horizontal, Vertical: vertical})
	}
}
