package meshgen

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

type objCorner struct {
	v, t, n int
}

// ParseOBJ reads positions, texture coordinates, normals, and polygonal
// faces. Faces are fan-triangulated. Materials, groups, and smoothing
// statements are ignored.
func ParseOBJ(data []byte) (*Builder, error) {
	var (
		positions []mgl32.Vec3
		uvs       []mgl32.Vec2
		normals   []mgl32.Vec3
	)
	b := NewBuilder()
	dedup := make(map[objCorner]uint32)
	white := [4]float32{1, 1, 1, 1}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			positions = append(positions, mgl32.Vec3{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			uvs = append(uvs, mgl32.Vec2{v[0], v[1]})
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			normals = append(normals, mgl32.Vec3{v[0], v[1], v[2]})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs at least 3 vertices", line)
			}
			idx := make([]uint32, 0, len(fields)-1)
			for _, f := range fields[1:] {
				c, err := parseCorner(f, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				if i, ok := dedup[c]; ok {
					idx = append(idx, i)
					continue
				}
				vert := gfx.Vertex{Position: positions[c.v], Color: white}
				if c.t >= 0 {
					vert.UV = uvs[c.t]
				}
				if c.n >= 0 {
					vert.Normal = normals[c.n]
				}
				i := b.AddVertex(vert)
				dedup[c] = i
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				b.AddTriangle(idx[0], idx[k], idx[k+1])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if b.Empty() {
		return nil, fmt.Errorf("obj: no faces")
	}
	return b, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseCorner handles v, v/t, v//n and v/t/n with 1-based or negative
// indices. Missing entries come back as -1.
func parseCorner(s string, nv, nt, nn int) (objCorner, error) {
	parts := strings.Split(s, "/")
	c := objCorner{v: -1, t: -1, n: -1}
	resolve := func(p string, count int) (int, error) {
		i, err := strconv.Atoi(p)
		if err != nil {
			return -1, fmt.Errorf("bad index %q", p)
		}
		if i < 0 {
			i = count + i
		} else {
			i--
		}
		if i < 0 || i >= count {
			return -1, fmt.Errorf("index %q out of range", p)
		}
		return i, nil
	}
	var err error
	if c.v, err = resolve(parts[0], nv); err != nil {
		return c, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.t, err = resolve(parts[1], nt); err != nil {
			return c, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.n, err = resolve(parts[2], nn); err != nil {
			return c, err
		}
	}
	return c, nil
}
