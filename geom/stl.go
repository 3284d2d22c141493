package geom

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Unit scales for ReadSTL.
const (
	Meters = 1.0
	Inches = 0.0254 // SketchUp exports
)

// ReadSTL reads a binary STL file. Coordinates are multiplied by scale
// to convert them to meters. Vertexes at identical positions are welded.
func ReadSTL(r io.Reader, scale float64) (*Mesh, error) {
	var header struct {
		H    [80]byte
		NTri uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading STL header: %w", err)
	}

	m := new(Mesh)
	vertMap := make(map[[3]float32]int)

	var vert [3]float32
	var tri [3]int
	triBuf := make([]byte, 4*3*4+2)
	for i := 0; i < int(header.NTri); i++ {
		if _, err := io.ReadFull(r, triBuf); err != nil {
			return nil, fmt.Errorf("reading STL triangle %d: %w", i, err)
		}
		for v := range tri {
			for c := range vert {
				const start = 3 * 4 // Skip normal
				vert[c] = math.Float32frombits(binary.LittleEndian.Uint32(triBuf[start+12*v+4*c:]))
			}
			vertIndex, ok := vertMap[vert]
			if !ok {
				vertIndex = len(m.Verts)
				m.Verts = append(m.Verts, [3]float64{
					float64(vert[0]) * scale,
					float64(vert[1]) * scale,
					float64(vert[2]) * scale,
				})
				vertMap[vert] = vertIndex
			}
			tri[v] = vertIndex
		}
		m.Tris = append(m.Tris, tri)
	}

	return m, nil
}
