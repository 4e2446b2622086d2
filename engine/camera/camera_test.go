package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/maki-go/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

// referenceViewProjection rebuilds projection * view from the camera's public
// state without any caching, using mgl32 for the vector and look-at math.
func referenceViewProjection(c Camera) [16]float32 {
	a := c.Angle()
	sinH, cosH := math.Sincos(float64(a.Horizontal))
	sinV, cosV := math.Sincos(float64(a.Vertical))
	dir := mgl32.Vec3{float32(cosV * sinH), float32(sinV), float32(-cosV * cosH)}.Normalize()
	right := dir.Cross(mgl32.Vec3(WorldUp)).Normalize()
	up := right.Cross(dir)

	eye := mgl32.Vec3(c.Position())
	view := mgl32.LookAtV(eye, eye.Add(dir), up)

	var proj mgl32.Mat4
	w, h := c.WindowSize()
	switch c.Type() {
	case CameraTypeOrthographic:
		hw := float32(w) * OrthoUnitsPerPixel / 2
		hh := float32(h) * OrthoUnitsPerPixel / 2
		common.Orthographic(proj[:], -hw, hw, -hh, hh, Near, Far)
	default:
		common.Perspective(proj[:], c.Fov(), float32(w)/float32(h), Near, Far)
	}
	return proj.Mul4(view)
}

func counts(c Camera) recomputeCounts {
	return c.(*cameraImpl).counts
}

func assertVec3(t *testing.T, expected, actual [3]float32) {
	t.Helper()
	assert.InDeltaSlice(t, expected[:], actual[:], tol)
}

func TestNewCameraSeedsDirection(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective)

	assertVec3(t, [3]float32{0, 0, -1}, c.Direction())
	assertVec3(t, [3]float32{1, 0, 0}, c.Right())
	assertVec3(t, [3]float32{0, 1, 0}, c.Up())
	assert.Equal(t, 0, counts(c).direction, "seeded direction must not be recomputed")

	assert.Equal(t, [3]float32{0, 0, 10}, c.Position())
	assert.Equal(t, Angle{}, c.Angle())
	assert.InDelta(t, 800.0/600.0, c.Aspect(), tol)
	assert.InDelta(t, math.Pi/4, c.Fov(), tol)
}

func TestSeededDirectionMatchesRecompute(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective)
	seeded := [3][3]float32{c.Direction(), c.Right(), c.Up()}

	c.SetRotation(Angle{})
	assertVec3(t, seeded[0], c.Direction())
	assertVec3(t, seeded[1], c.Right())
	assertVec3(t, seeded[2], c.Up())
	assert.Equal(t, 1, counts(c).direction)
}

func TestViewProjectionMatchesFromScratch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c Camera)
	}{
		{"defaults", func(c Camera) {}},
		{"position", func(c Camera) { c.SetPosition([3]float32{1, -2, 3}) }},
		{"rotation", func(c Camera) { c.SetRotation(Angle{Horizontal: 0.7, Vertical: -0.3}) }},
		{"fov and size", func(c Camera) {
			c.SetFov(1.1)
			c.SetWindowSize(1920, 1080)
		}},
		{"orthographic", func(c Camera) {
			c.SetType(CameraTypeOrthographic)
			c.Rotate(Angle{Horizontal: -1.2, Vertical: 0.4})
		}},
		{"move then rotate", func(c Camera) {
			c.Move([3]float32{0.5, 1, -2})
			c.Rotate(Angle{Horizontal: 2.5, Vertical: 0.2})
			c.Move([3]float32{-1, 0, 3})
		}},
		{"interleaved reads", func(c Camera) {
			c.SetRotation(Angle{Horizontal: 0.3})
			_ = c.ViewProjection()
			c.SetPosition([3]float32{4, 4, 4})
			_ = c.ProjectionMatrix()
			c.SetFov(0.5)
			_ = c.Direction()
			c.Rotate(Angle{Vertical: 0.6})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(800, 600, CameraTypePerspective)
			tt.mutate(c)
			want := referenceViewProjection(c)
			got := c.ViewProjection()
			assert.InDeltaSlice(t, want[:], got[:], tol)
		})
	}
}

func TestViewMatrixMatchesLookAt(t *testing.T) {
	c := NewCamera(640, 480, CameraTypePerspective,
		WithPosition(2, 3, 4),
		WithRotation(0.4, -0.2),
	)
	eye := mgl32.Vec3(c.Position())
	dir := mgl32.Vec3(c.Direction())
	want := mgl32.LookAtV(eye, eye.Add(dir), mgl32.Vec3(c.Up()))
	got := c.ViewMatrix()
	assert.InDeltaSlice(t, want[:], got[:], tol)
}

func TestViewProjectionIsCached(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective)

	first := c.ViewProjection()
	before := counts(c)
	assert.Equal(t, recomputeCounts{direction: 0, view: 1, projection: 1, viewProjection: 1}, before)

	second := c.ViewProjection()
	assert.Equal(t, first, second)
	assert.Equal(t, before, counts(c), "a valid cache must not be rebuilt")
}

func TestSetPositionKeepsDirection(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective)
	c.SetRotation(Angle{Horizontal: 0.5})
	_ = c.ViewProjection()
	before := counts(c)

	c.SetPosition([3]float32{1, 2, 3})
	_ = c.ViewProjection()
	after := counts(c)

	assert.Equal(t, before.direction, after.direction)
	assert.Equal(t, before.projection, after.projection)
	assert.Equal(t, before.view+1, after.view)
	assert.Equal(t, before.viewProjection+1, after.viewProjection)
}

func TestSetRotationInvalidatesChain(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective)
	old := c.ViewProjection()
	before := counts(c)

	c.SetRotation(Angle{Horizontal: math.Pi / 2})
	assert.Equal(t, [3]float32{0, 0, 10}, c.Position())
	assert.Equal(t, before, counts(c), "mutators must not recompute eagerly")

	vp := c.ViewProjection()
	assert.NotEqual(t, old, vp)
	want := referenceViewProjection(c)
	assert.InDeltaSlice(t, want[:], vp[:], tol)

	after := counts(c)
	assert.Equal(t, before.direction+1, after.direction)
	assert.Equal(t, before.view+1, after.view)
	assert.Equal(t, before.projection, after.projection)
	assert.Equal(t, before.viewProjection+1, after.viewProjection)
}

func TestProjectionMutatorsKeepView(t *testing.T) {
	mutators := map[string]func(c Camera){
		"SetFov":        func(c Camera) { c.SetFov(1) },
		"SetWindowSize": func(c Camera) { c.SetWindowSize(100, 50) },
		"SetType":       func(c Camera) { c.SetType(CameraTypeOrthographic) },
	}
	for name, mutate := range mutators {
		t.Run(name, func(t *testing.T) {
			c := NewCamera(800, 600, CameraTypePerspective)
			_ = c.ViewProjection()
			before := counts(c)

			mutate(c)
			_ = c.ViewProjection()
			after := counts(c)

			assert.Equal(t, before.view, after.view)
			assert.Equal(t, before.direction, after.direction)
			assert.Equal(t, before.projection+1, after.projection)
			assert.Equal(t, before.viewProjection+1, after.viewProjection)
		})
	}
}

func TestInvalidationCoalesces(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective)
	_ = c.ViewProjection()
	before := counts(c)

	for range 10 {
		c.Rotate(Angle{Horizontal: 0.01})
		c.SetPosition([3]float32{0, 1, 2})
		c.SetFov(0.9)
	}
	_ = c.ViewProjection()
	after := counts(c)

	assert.Equal(t, before.direction+1, after.direction)
	assert.Equal(t, before.view+1, after.view)
	assert.Equal(t, before.projection+1, after.projection)
	assert.Equal(t, before.viewProjection+1, after.viewProjection)
}

func TestMoveUsesLocalAxes(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective)

	c.Move([3]float32{0, 0, -1})
	assertVec3(t, [3]float32{0, 0, 9}, c.Position())

	c.SetPosition([3]float32{})
	c.Move([3]float32{1, 0, 0})
	unrotated := c.Position()
	assertVec3(t, [3]float32{1, 0, 0}, unrotated)

	c.SetPosition([3]float32{})
	c.SetRotation(Angle{Horizontal: math.Pi / 2})
	c.Move([3]float32{1, 0, 0})
	rotated := c.Position()
	assertVec3(t, [3]float32{0, 0, 1}, rotated)
	assert.NotEqual(t, unrotated, rotated)

	c.SetPosition([3]float32{})
	c.Move([3]float32{0, 0, -2})
	assertVec3(t, [3]float32{2, 0, 0}, c.Position())
}

func TestMoveAlongUp(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective, WithPosition(0, 0, 0))
	c.Move([3]float32{0, 3, 0})
	assertVec3(t, [3]float32{0, 3, 0}, c.Position())
}

func TestMoveRefreshesStaleDirection(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective, WithPosition(0, 0, 0))
	c.SetRotation(Angle{Horizontal: -math.Pi / 2})
	c.Move([3]float32{0, 0, -1})
	assertVec3(t, [3]float32{-1, 0, 0}, c.Position())
}

func TestDirectionVectorsAreUnitLength(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective)
	for _, a := range []Angle{{0.3, 0.2}, {-2.9, 1.2}, {1, -1.5}, {4, 3}} {
		c.SetRotation(a)
		for _, v := range [][3]float32{c.Direction(), c.Right(), c.Up()} {
			assert.InDelta(t, 1.0, common.Length3(v), tol)
		}
	}
}

func TestFovIsClamped(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective)

	c.SetFov(-1)
	assert.Equal(t, MinFov, c.Fov())
	c.SetFov(10)
	assert.Equal(t, MaxFov, c.Fov())
	c.SetFov(float32(math.NaN()))
	assert.InDelta(t, math.Pi/4, c.Fov(), tol)

	c.SetFov(0)
	vp := c.ViewProjection()
	var inv [16]float32
	assert.True(t, common.Invert4(inv[:], vp[:]))
}

func TestWindowSizeIsClamped(t *testing.T) {
	c := NewCamera(0, 0, CameraTypePerspective)
	w, h := c.WindowSize()
	assert.Equal(t, uint32(1), w)
	assert.Equal(t, uint32(1), h)
	assert.InDelta(t, 1.0, c.Aspect(), tol)

	c.SetWindowSize(1280, 0)
	assert.InDelta(t, 1280.0, c.Aspect(), tol)

	vp := c.ViewProjection()
	var inv [16]float32
	assert.True(t, common.Invert4(inv[:], vp[:]))
}

func TestVerticalAngleIsClamped(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective)
	c.SetRotation(Angle{Vertical: math.Pi})
	assert.Equal(t, MaxPitch, c.Angle().Vertical)

	c.Rotate(Angle{Vertical: -10})
	assert.Equal(t, -MaxPitch, c.Angle().Vertical)

	vp := c.ViewProjection()
	for _, v := range vp {
		assert.False(t, math.IsNaN(float64(v)))
	}
}

func TestHorizontalAngleWraps(t *testing.T) {
	c := NewCamera(800, 600, CameraTypePerspective)
	c.SetRotation(Angle{Horizontal: 3 * math.Pi / 2})
	assert.InDelta(t, -math.Pi/2, c.Angle().Horizontal, tol)

	c.Rotate(Angle{Horizontal: -2 * math.Pi})
	assert.InDelta(t, -math.Pi/2, c.Angle().Horizontal, tol)

	c.SetRotation(Angle{Horizontal: 1})
	assert.InDelta(t, 1.0, c.Angle().Horizontal, tol)
}

func TestOrthographicProjection(t *testing.T) {
	c := NewCamera(800, 400, CameraTypeOrthographic)
	p := c.ProjectionMatrix()
	assert.InDelta(t, 2.0/8.0, p[0], tol)
	assert.InDelta(t, 2.0/4.0, p[5], tol)
	assert.InDelta(t, 1.0, p[15], tol)
	assert.InDelta(t, 0.0, p[11], tol)
}

func TestParseCameraType(t *testing.T) {
	ct, err := ParseCameraType("Orthographic")
	require.NoError(t, err)
	assert.Equal(t, CameraTypeOrthographic, ct)

	ct, err = ParseCameraType("")
	require.NoError(t, err)
	assert.Equal(t, CameraTypePerspective, ct)

	_, err = ParseCameraType("fisheye")
	assert.Error(t, err)

	assert.Equal(t, "perspective", CameraTypePerspective.String())
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	u := GPUCameraUniform{MVP: common.IdentityMatrix(), CameraPosition: [3]float32{1, 2, 3}}
	assert.Equal(t, 80, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 80)
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, buf[0:4])   // 1.0
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[4:8])         // 0.0
	assert.Equal(t, []byte{0, 0, 0x40, 0x40}, buf[72:76]) // 3.0
}
