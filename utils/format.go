package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// FormatFloat prints the shortest representation that reads back to the same float32.
func FormatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func FormatInt(i int) string {
	return strconv.Itoa(i)
}

// FormatRGB prints a color triple as "r, g, b".
func FormatRGB(c [3]float32) string {
	return fmt.Sprintf("%s, %s, %s", FormatFloat(c[0]), FormatFloat(c[1]), FormatFloat(c[2]))
}

// FormatPoint prints a position or direction as "x,y,z" with six decimals.
func FormatPoint(v mgl32.Vec3) string {
	return fmt.Sprintf("%f,%f,%f", v[0], v[1], v[2])
}

// FormatMatrix prints all 16 values row by row, comma separated.
func FormatMatrix(m mgl32.Mat4) string {
	values := make([]string, 0, 16)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			values = append(values, FormatFloat(m.At(row, col)))
		}
	}
	return strings.Join(values, ",")
}

// ParseMatrix reads a matrix written by FormatMatrix.
func ParseMatrix(s string) (mgl32.Mat4, error) {
	var m mgl32.Mat4
	values := strings.Split(s, ",")
	if len(values) != 16 {
		return m, errors.Errorf("Matrix must have 16 values, got %d", len(values))
	}
	for i, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
		if err != nil {
			return m, errors.Wrapf(err, "Can't parse matrix value %d", i)
		}
		m.Set(i/4, i%4, float32(f))
	}
	return m, nil
}
