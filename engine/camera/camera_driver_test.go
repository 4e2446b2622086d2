package camera

import (
	"testing"

	"github.com/Carmen-Shannon/maki-go/common"
	"github.com/Carmen-Shannon/maki-go/engine/input"
	"github.com/stretchr/testify/assert"
)

func newDrivenCamera(options ...CameraDriverOption) (Camera, *input.Keyboard, CameraDriver) {
	cam := NewCamera(800, 600, CameraTypePerspective)
	keys := input.NewKeyboard()
	return cam, keys, NewCameraDriver(cam, keys, options...)
}

func TestDriverIdleFrameKeepsCaches(t *testing.T) {
	cam, _, driver := newDrivenCamera()
	_ = cam.ViewProjection()
	impl := cam.(*cameraImpl)
	before, outdated := impl.counts, impl.outdated

	driver.Update(1.0 / 60)
	_ = cam.ViewProjection()

	assert.Equal(t, before, impl.counts)
	assert.Equal(t, outdated, impl.outdated)
}

func TestDriverMovesForward(t *testing.T) {
	cam, keys, driver := newDrivenCamera(WithMoveSpeed(4))
	keys.Press(common.KeyW)

	driver.Update(0.5)
	assertVec3(t, [3]float32{0, 0, 8}, cam.Position())

	keys.Release(common.KeyW)
	driver.Update(0.5)
	assertVec3(t, [3]float32{0, 0, 8}, cam.Position())
}

func TestDriverDiagonalMoveIsNormalized(t *testing.T) {
	cam, keys, driver := newDrivenCamera(WithMoveSpeed(1))
	cam.SetPosition([3]float32{})
	keys.Press(common.KeyD)
	keys.Press(common.KeySpace)

	driver.Update(1)
	assert.InDelta(t, 1.0, common.Length3(cam.Position()), tol)
}

func TestDriverOpposingKeysCancel(t *testing.T) {
	cam, keys, driver := newDrivenCamera()
	keys.Press(common.KeyW)
	keys.Press(common.KeyS)
	keys.Press(common.KeyQ)
	keys.Press(common.KeyE)

	driver.Update(1)
	assert.Equal(t, [3]float32{0, 0, 10}, cam.Position())
	assert.Equal(t, Angle{}, cam.Angle())
}

func TestDriverTurns(t *testing.T) {
	cam, keys, driver := newDrivenCamera(WithTurnSpeed(2))
	keys.Press(common.KeyE)
	driver.Update(0.25)
	assert.InDelta(t, 0.5, cam.Angle().Horizontal, tol)

	keys.Reset()
	keys.Press(common.KeyUp)
	driver.Update(0.25)
	assert.InDelta(t, 0.5, cam.Angle().Vertical, tol)
}

func TestDriverIgnoresNonPositiveDelta(t *testing.T) {
	cam, keys, driver := newDrivenCamera()
	keys.Press(common.KeyW)
	keys.Press(common.KeyE)

	driver.Update(0)
	driver.Update(-1)
	assert.Equal(t, [3]float32{0, 0, 10}, cam.Position())
	assert.Equal(t, Angle{}, cam.Angle())
}
