package camera

import (
	"fmt"
	"math"
	"strings"

	"github.com/chewxy/math32"
)

// CameraType selects the projection used by a Camera.
type CameraType int

const (
	// CameraTypePerspective projects with a vertical field of view and the viewport aspect ratio.
	CameraTypePerspective CameraType = iota

	// CameraTypeOrthographic projects without foreshortening; the view volume is sized from the viewport.
	CameraTypeOrthographic
)

func (t CameraType) String() string {
	switch t {
	case CameraTypePerspective:
		return "perspective"
	case CameraTypeOrthographic:
		return "orthographic"
	default:
		return fmt.Sprintf("CameraType(%d)", int(t))
	}
}

// ParseCameraType converts a configuration string into a CameraType.
// Matching is case-insensitive; an empty string selects perspective.
//
// Parameters:
//   - s: "perspective" or "orthographic"
//
// Returns:
//   - CameraType: the parsed type
//   - error: error if s names no known type
func ParseCameraType(s string) (CameraType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "perspective":
		return CameraTypePerspective, nil
	case "orthographic", "ortho":
		return CameraTypeOrthographic, nil
	}
	return CameraTypePerspective, fmt.Errorf("unknown camera type %q", s)
}

// Angle is a camera orientation in radians.
// Horizontal turns about the world up axis (positive turns right);
// Vertical tilts above (positive) or below the horizon.
type Angle struct {
	Horizontal float32
	Vertical   float32
}

// normalized wraps Horizontal into [-π, π] and clamps Vertical to ±MaxPitch.
func (a Angle) normalized() Angle {
	const twoPi = float32(2 * math.Pi)
	h := a.Horizontal
	if h > math.Pi || h < -math.Pi {
		h = math32.Mod(h+math.Pi, twoPi)
		if h < 0 {
			h += twoPi
		}
		h -= math.Pi
	}
	return Angle{
		Horizontal: h,
		Vertical:   min(max(a.Vertical, -MaxPitch), MaxPitch),
	}
}
