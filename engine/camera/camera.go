package camera

import (
	"math"

	"github.com/Carmen-Shannon/maki-go/common"
	"github.com/chewxy/math32"
)

const (
	// Near is the distance of the near clipping plane.
	Near float32 = 0.1
	// Far is the distance of the far clipping plane.
	Far float32 = 100.0

	// MinFov and MaxFov bound the accepted field of view (radians).
	MinFov float32 = 0.01
	MaxFov float32 = math.Pi - 0.01

	// MaxPitch bounds the vertical angle so the direction never lines up with the world up axis.
	MaxPitch float32 = math.Pi/2 - 0.001

	// OrthoUnitsPerPixel is the world-space size of one viewport pixel for orthographic projection.
	OrthoUnitsPerPixel float32 = 0.01
)

// WorldUp is the world-space up axis used to derive the camera's right vector.
var WorldUp = [3]float32{0, 1, 0}

// stage identifies one cached value in the camera's derived-state pipeline.
type stage uint8

const (
	stageDirection stage = 1 << iota
	stageView
	stageProjection
	stageViewProjection
)

// dependents lists, for each stage, every stage that must be invalidated with it.
var dependents = map[stage]stage{
	stageDirection:      stageDirection | stageView | stageViewProjection,
	stageView:           stageView | stageViewProjection,
	stageProjection:     stageProjection | stageViewProjection,
	stageViewProjection: stageViewProjection,
}

// recomputeCounts records how often each cached stage has been rebuilt.
type recomputeCounts struct {
	direction      int
	view           int
	projection     int
	viewProjection int
}

type cameraImpl struct {
	cameraType CameraType
	width      uint32
	height     uint32
	aspect     float32
	fov        float32

	position [3]float32
	angle    Angle

	direction [3]float32
	right     [3]float32
	up        [3]float32

	view           [16]float32
	projection     [16]float32
	viewProjection [16]float32

	// outdated holds one bit per stage; a set bit means the cached value is stale.
	outdated stage

	counts recomputeCounts
}

// Camera is a single perspective or orthographic camera whose derived transforms
// (direction vectors, view, projection, view-projection) are cached and rebuilt
// lazily, only for the stages a mutation actually affected.
//
// A Camera is not safe for concurrent use. It is owned by the render goroutine
// that created it.
type Camera interface {
	// Type returns the projection type.
	Type() CameraType

	// Position returns the world-space eye position.
	Position() [3]float32

	// Angle returns the horizontal and vertical orientation in radians.
	Angle() Angle

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the viewport aspect ratio (width / height).
	Aspect() float32

	// WindowSize returns the viewport dimensions in pixels.
	WindowSize() (width, height uint32)

	// Direction returns the unit forward vector, recomputing it if stale.
	Direction() [3]float32

	// Right returns the unit right vector, recomputing it if stale.
	Right() [3]float32

	// Up returns the unit up vector, recomputing it if stale.
	Up() [3]float32

	// ViewMatrix returns the 4x4 view matrix (column-major), recomputing it if stale.
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the 4x4 projection matrix (column-major), recomputing it if stale.
	ProjectionMatrix() [16]float32

	// ViewProjection returns projection * view (column-major).
	// Only stale stages are rebuilt; a valid cached value is returned as is.
	ViewProjection() [16]float32

	// SetType switches between perspective and orthographic projection.
	// Invalidates projection and view-projection.
	SetType(t CameraType)

	// SetWindowSize updates the viewport dimensions and aspect ratio.
	// Dimensions below 1 are raised to 1. Invalidates projection and view-projection.
	SetWindowSize(width, height uint32)

	// SetFov sets the vertical field of view in radians, clamped to [MinFov, MaxFov].
	// Invalidates projection and view-projection.
	SetFov(fov float32)

	// SetPosition moves the eye to a world-space position.
	// Invalidates view and view-projection.
	SetPosition(position [3]float32)

	// SetRotation replaces the orientation.
	// Invalidates direction, view and view-projection.
	SetRotation(angle Angle)

	// Move translates the eye by delta expressed in camera-local axes:
	// X along right, Y along up, Z along the negated direction.
	// Invalidates view and view-projection.
	Move(delta [3]float32)

	// Rotate adds delta to the orientation.
	// Invalidates direction, view and view-projection.
	Rotate(delta Angle)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera for a viewport of the given size.
// Every cache starts stale except the direction vectors, which are seeded
// with the forward vector for angle (0, 0).
//
// Parameters:
//   - width, height: viewport dimensions in pixels
//   - cameraType: perspective or orthographic projection
//   - options: functional options applied after the defaults
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(width, height uint32, cameraType CameraType, options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		cameraType: cameraType,
		fov:        math.Pi / 4,
		position:   [3]float32{0, 0, 10},
		direction:  [3]float32{0, 0, -1},
		right:      [3]float32{1, 0, 0},
		up:         [3]float32{0, 1, 0},
		view:       common.IdentityMatrix(),
		projection: common.IdentityMatrix(),
		outdated:   stageView | stageProjection | stageViewProjection,
	}
	c.viewProjection = common.IdentityMatrix()
	c.setSize(width, height)

	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Type() CameraType {
	return c.cameraType
}

func (c *cameraImpl) Position() [3]float32 {
	return c.position
}

func (c *cameraImpl) Angle() Angle {
	return c.angle
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) WindowSize() (width, height uint32) {
	return c.width, c.height
}

func (c *cameraImpl) Direction() [3]float32 {
	c.ensure(stageDirection)
	return c.direction
}

func (c *cameraImpl) Right() [3]float32 {
	c.ensure(stageDirection)
	return c.right
}

func (c *cameraImpl) Up() [3]float32 {
	c.ensure(stageDirection)
	return c.up
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.ensure(stageView)
	return c.view
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.ensure(stageProjection)
	return c.projection
}

func (c *cameraImpl) ViewProjection() [16]float32 {
	c.ensure(stageViewProjection)
	return c.viewProjection
}

func (c *cameraImpl) SetType(t CameraType) {
	c.cameraType = t
	c.invalidate(stageProjection)
}

func (c *cameraImpl) SetWindowSize(width, height uint32) {
	c.setSize(width, height)
	c.invalidate(stageProjection)
}

func (c *cameraImpl) SetFov(fov float32) {
	c.fov = clampFov(fov)
	c.invalidate(stageProjection)
}

func (c *cameraImpl) SetPosition(position [3]float32) {
	c.position = position
	c.invalidate(stageView)
}

func (c *cameraImpl) SetRotation(angle Angle) {
	c.angle = angle.normalized()
	c.invalidate(stageDirection)
}

func (c *cameraImpl) Move(delta [3]float32) {
	c.ensure(stageDirection)

	offset := common.Scale3(c.right, delta[0])
	offset = common.Add3(offset, common.Scale3(c.up, delta[1]))
	offset = common.Add3(offset, common.Scale3(c.direction, -delta[2]))

	c.position = common.Add3(c.position, offset)
	c.invalidate(stageView)
}

func (c *cameraImpl) Rotate(delta Angle) {
	c.angle = Angle{
		Horizontal: c.angle.Horizontal + delta.Horizontal,
		Vertical:   c.angle.Vertical + delta.Vertical,
	}.normalized()
	c.invalidate(stageDirection)
}

// --- internal helpers ---

// setSize stores the viewport dimensions (at least 1x1) and derives the aspect ratio.
func (c *cameraImpl) setSize(width, height uint32) {
	c.width = max(width, 1)
	c.height = max(height, 1)
	c.aspect = float32(c.width) / float32(c.height)
}

// invalidate marks s and every stage depending on it as stale.
func (c *cameraImpl) invalidate(s stage) {
	c.outdated |= dependents[s]
}

// ensure rebuilds s if it is stale, pulling in any stale inputs first.
func (c *cameraImpl) ensure(s stage) {
	if c.outdated&s == 0 {
		return
	}
	switch s {
	case stageDirection:
		c.calcDirection()
	case stageView:
		c.calcView()
	case stageProjection:
		c.calcProjection()
	case stageViewProjection:
		c.calcViewProjection()
	}
	c.outdated &^= s
}

// calcDirection derives the forward, right and up unit vectors from the angle.
func (c *cameraImpl) calcDirection() {
	sinH, cosH := math32.Sincos(c.angle.Horizontal)
	sinV, cosV := math32.Sincos(c.angle.Vertical)

	c.direction = common.Normalize3([3]float32{cosV * sinH, sinV, -cosV * cosH})
	c.right = common.Normalize3(common.Cross3(c.direction, WorldUp))
	c.up = common.Normalize3(common.Cross3(c.right, c.direction))
	c.counts.direction++
}

// calcView builds the look-at matrix. Depends on direction.
func (c *cameraImpl) calcView() {
	c.ensure(stageDirection)
	target := common.Add3(c.position, c.direction)
	common.LookAt(c.view[:],
		c.position[0], c.position[1], c.position[2],
		target[0], target[1], target[2],
		c.up[0], c.up[1], c.up[2],
	)
	c.counts.view++
}

// calcProjection builds the perspective or orthographic matrix.
func (c *cameraImpl) calcProjection() {
	switch c.cameraType {
	case CameraTypeOrthographic:
		halfW := float32(c.width) * OrthoUnitsPerPixel / 2
		halfH := float32(c.height) * OrthoUnitsPerPixel / 2
		common.Orthographic(c.projection[:], -halfW, halfW, -halfH, halfH, Near, Far)
	default:
		common.Perspective(c.projection[:], c.fov, c.aspect, Near, Far)
	}
	c.counts.projection++
}

// calcViewProjection multiplies projection * view. Depends on view and projection.
func (c *cameraImpl) calcViewProjection() {
	c.ensure(stageView)
	c.ensure(stageProjection)
	common.Mul4(c.viewProjection[:], c.projection[:], c.view[:])
	c.counts.viewProjection++
}

// clampFov restricts fov to [MinFov, MaxFov]; NaN falls back to the default.
func clampFov(fov float32) float32 {
	if math32.IsNaN(fov) {
		return math.Pi / 4
	}
	return min(max(fov, MinFov), MaxFov)
}
