package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ZUpToYUp is the basis change from the host convention (Y forward, Z up)
// to the renderer convention (-Z forward, Y up): (x, y, z) -> (x, z, -y).
var ZUpToYUp = mgl32.Mat4{
	1, 0, 0, 0,
	0, 0, -1, 0,
	0, 1, 0, 0,
	0, 0, 0, 1,
}

// YUpToZUp is the inverse of ZUpToYUp: (x, y, z) -> (x, -z, y).
var YUpToZUp = ZUpToYUp.Transpose()

// cameraFlip negates the X and Z camera axes, the renderer looks down +Z
// with X pointing left.
var cameraFlip = mgl32.Diag3(mgl32.Vec3{-1, 1, -1})

func ToNoriCoord(m mgl32.Mat4) mgl32.Mat4 {
	return ZUpToYUp.Mul4(m)
}

// NoriCameraMatrix converts a host camera world matrix into the renderer's
// camera-to-world matrix.
func NoriCameraMatrix(world mgl32.Mat4) mgl32.Mat4 {
	m := ToNoriCoord(world)
	pos := m.Col(3).Vec3()
	t := m.Mat3().Mul3(cameraFlip)

	return mgl32.Mat4{
		t[0], t[1], t[2], 0,
		t[3], t[4], t[5], 0,
		t[6], t[7], t[8], 0,
		pos[0], pos[1], pos[2], 1,
	}
}

func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// Forward is the direction the local -Z axis points to in world space.
func Forward(m mgl32.Mat4) mgl32.Vec3 {
	v := m.Mat3().Mul3x1(mgl32.Vec3{0, 0, -1})
	if v.Len() > 0 {
		v = v.Normalize()
	}
	return v
}

func RadToDeg(r float32) float32 {
	return r * 180 / math.Pi
}

// TRS composes a translation, a (x, y, z, w) rotation quaternion and a scale.
func TRS(t [3]float32, r [4]float32, s [3]float32) mgl32.Mat4 {
	q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	if q.Len() == 0 {
		q = mgl32.QuatIdent()
	}
	if s == [3]float32{} {
		s = [3]float32{1, 1, 1}
	}
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// MatFromRows builds a matrix from row-major rows.
func MatFromRows(rows [4][4]float32) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m.Set(i, j, rows[i][j])
		}
	}
	return m
}
