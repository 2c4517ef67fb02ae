package utils

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZUpToYUp(t *testing.T) {
	// host forward (+Y) becomes -Z, host up (+Z) becomes +Y
	assert.True(t, ZUpToYUp.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).ApproxEqual(mgl32.Vec4{0, 0, -1, 0}))
	assert.True(t, ZUpToYUp.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).ApproxEqual(mgl32.Vec4{0, 1, 0, 0}))
	assert.True(t, ZUpToYUp.Mul4(YUpToZUp).ApproxEqual(mgl32.Ident4()))
}

func TestNoriCameraMatrix(t *testing.T) {
	world := mgl32.Translate3D(1, 2, 3)
	m := NoriCameraMatrix(world)

	assert.True(t, Translation(m).ApproxEqual(mgl32.Vec3{1, 3, -2}))
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, m.Row(3))
	// identity host camera looks down host -Z, the renderer camera looks down its +Z
	assert.True(t, m.Mat3().Mul3x1(mgl32.Vec3{0, 0, 1}).ApproxEqual(mgl32.Vec3{0, -1, 0}))
	assert.True(t, m.Mat3().Mul3x1(mgl32.Vec3{1, 0, 0}).ApproxEqual(mgl32.Vec3{-1, 0, 0}))
}

func TestForward(t *testing.T) {
	assert.True(t, Forward(mgl32.Ident4()).ApproxEqual(mgl32.Vec3{0, 0, -1}))
	// rotating -Z a quarter turn around X leaves float noise in Z
	f := Forward(mgl32.HomogRotate3DX(math.Pi / 2))
	assert.InDelta(t, 0, f.X(), 1e-6)
	assert.InDelta(t, 1, f.Y(), 1e-6)
	assert.InDelta(t, 0, f.Z(), 1e-6)
}

func TestTRS(t *testing.T) {
	m := TRS([3]float32{1, 2, 3}, [4]float32{}, [3]float32{})
	assert.True(t, m.ApproxEqual(mgl32.Translate3D(1, 2, 3)))

	m = TRS([3]float32{}, [4]float32{0, 0, 0, 1}, [3]float32{2, 2, 2})
	assert.True(t, m.ApproxEqual(mgl32.Scale3D(2, 2, 2)))
}

func TestMatrixRoundTrip(t *testing.T) {
	m := MatFromRows([4][4]float32{
		{0.1, 0.2, 0.3, 4},
		{-1.5, 1e-7, 3.25, -8},
		{0, 1, 0.333333, 12.75},
		{0, 0, 0, 1},
	})

	s := FormatMatrix(m)
	assert.Len(t, strings.Split(s, ","), 16)
	assert.False(t, strings.HasSuffix(s, ","))
	assert.True(t, strings.HasPrefix(s, "0.1,0.2,0.3,4,-1.5,"))

	parsed, err := ParseMatrix(s)
	require.NoError(t, err)
	assert.True(t, parsed.ApproxEqualThreshold(m, 1e-6))

	_, err = ParseMatrix("1,2,3")
	assert.Error(t, err)
	_, err = ParseMatrix(strings.Repeat("x,", 15) + "x")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.8, 0.2, 0.2", FormatRGB([3]float32{0.8, 0.2, 0.2}))
	assert.Equal(t, "1.000000,-2.500000,0.000000", FormatPoint(mgl32.Vec3{1, -2.5, 0}))
	assert.Equal(t, "32", FormatInt(32))
	assert.Equal(t, "1.5", FormatFloat(1.5))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Cube", FileName("Cube"))
	assert.Equal(t, "a_b_c", FileName("a/b\\c"))
	assert.Equal(t, "_", FileName(""))
	// decomposed e + combining acute becomes the single precomposed rune
	assert.Equal(t, "caf\u00e9", FileName("cafe\u0301"))
}

func TestRandomNameGenerator(t *testing.T) {
	var a, b RandomNameGenerator
	assert.Equal(t, "Cube", a.Unique("Cube"))
	dup := a.Unique("Cube")
	assert.NotEqual(t, "Cube", dup)
	assert.NotEmpty(t, a.Unique(""))

	b.Reserve("Cube")
	assert.Equal(t, dup, b.Unique("Cube"))
}
