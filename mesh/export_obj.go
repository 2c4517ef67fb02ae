package mesh

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/nori_exporter/scene"
)

// ObjExporter writes Wavefront obj files without materials.
type ObjExporter struct{}

func (ObjExporter) Export(_w io.Writer, objects []*scene.Object) error {
	bw := bufio.NewWriter(_w)
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	w("# nori_exporter")

	iV := uint32(1)
	iT := uint32(1)
	iN := uint32(1)

	for _, o := range objects {
		obj := Triangulate(o)

		w("o %s", obj.Name)
		for _, v := range obj.Positions {
			w("v %f %f %f", v[0], v[1], v[2])
		}
		for _, uv := range obj.UVs {
			w("vt %f %f", uv[0], uv[1])
		}
		for _, n := range obj.Normals {
			w("vn %f %f %f", n[0], n[1], n[2])
		}
		w("s off")

		for _, tri := range obj.Triangles {
			v, t, n := tri.V, tri.T, tri.N
			if obj.HaveNorm {
				if obj.HaveUV {
					w("f %v/%v/%v %v/%v/%v %v/%v/%v",
						iV+v[0], iT+t[0], iN+n[0],
						iV+v[1], iT+t[1], iN+n[1],
						iV+v[2], iT+t[2], iN+n[2])
				} else {
					w("f %v//%v %v//%v %v//%v",
						iV+v[0], iN+n[0],
						iV+v[1], iN+n[1],
						iV+v[2], iN+n[2])
				}
			} else {
				if obj.HaveUV {
					w("f %v/%v %v/%v %v/%v",
						iV+v[0], iT+t[0],
						iV+v[1], iT+t[1],
						iV+v[2], iT+t[2])
				} else {
					w("f %v %v %v",
						iV+v[0],
						iV+v[1],
						iV+v[2])
				}
			}
		}

		iV += uint32(len(obj.Positions))
		iT += uint32(len(obj.UVs))
		iN += uint32(len(obj.Normals))
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrapf(err, "Failed to write obj")
	}
	return nil
}
