package render

import "icon-sphere-renderer/internal/mathutil"

// Projector maps unit sphere positions to camera and screen space.
//
// Camera space: +Z faces the viewer, +Y is up. The projection is
// orthographic; depth only affects alpha and size.
type Projector struct {
	Width  float64 // logical pixels
	Height float64
	Radius float64
	Tilt   float64 // camera tilt about X, radians
}

// View returns the rotation for angles (rx, rz) including the tilt.
func (p Projector) View(rx, rz float64) mathutil.Mat3 {
	return mathutil.SphereView(p.Tilt, rx, rz)
}

// Camera rotates a unit position into unit camera space.
func (p Projector) Camera(view mathutil.Mat3, pos mathutil.Vec3) mathutil.Vec3 {
	return view.MulVec3(pos)
}

// Screen maps a unit camera-space point to logical screen pixels.
func (p Projector) Screen(c mathutil.Vec3) (x, y float64) {
	return c[0]*p.Radius + p.Width/2, -c[1]*p.Radius + p.Height/2
}

// Unproject maps a screen point back to unit camera space at depth z.
// Used to place fly-in origins given in screen coordinates.
func (p Projector) Unproject(x, y, z float64) mathutil.Vec3 {
	if p.Radius == 0 {
		return mathutil.Vec3{0, 0, z}
	}
	return mathutil.Vec3{(x - p.Width/2) / p.Radius, -(y - p.Height/2) / p.Radius, z}
}

// DepthAlpha is 1 at the front, 0.6 at the equator and 0.2 at the back.
func DepthAlpha(z float64) float64 {
	return mathutil.Clamp(0.6+0.4*z, 0, 1)
}

// DepthSize grows icons facing the camera by up to k.
func DepthSize(base, z, k float64) float64 {
	return base * (1 + k*z)
}
