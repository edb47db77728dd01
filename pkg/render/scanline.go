package render

import "github.com/taigrr/tinyrender/pkg/math3d"

// Scanline fills a screen-space triangle row by row, interpolating a
// per-vertex light intensity into a gray level (Gouraud shading).
//
// Vertices are sorted by y and the triangle is split at the middle vertex.
// Each row's span endpoints and every span pixel are rounded to integers.
// A pixel is written only when its depth is strictly greater than the
// stored one; pixels outside the target are skipped. Triangles whose three
// vertices share one row produce nothing.
func (r *Rasterizer) Scanline(t [3]math3d.Vec3i, ity [3]float64) {
	t0, t1, t2 := t[0], t[1], t[2]
	i0, i1, i2 := ity[0], ity[1], ity[2]
	if t0.Y == t1.Y && t0.Y == t2.Y {
		return
	}
	if t0.Y > t1.Y {
		t0, t1 = t1, t0
		i0, i1 = i1, i0
	}
	if t0.Y > t2.Y {
		t0, t2 = t2, t0
		i0, i2 = i2, i0
	}
	if t1.Y > t2.Y {
		t1, t2 = t2, t1
		i1, i2 = i2, i1
	}

	total := t2.Y - t0.Y
	for i := range total {
		secondHalf := i > t1.Y-t0.Y || t1.Y == t0.Y
		segment := t1.Y - t0.Y
		offset := 0
		if secondHalf {
			segment = t2.Y - t1.Y
			offset = t1.Y - t0.Y
		}
		alpha := float64(i) / float64(total)
		beta := float64(i-offset) / float64(segment)

		a := lerpi(t0, t2, alpha)
		ia := i0 + (i2-i0)*alpha
		var b math3d.Vec3i
		var ib float64
		if secondHalf {
			b = lerpi(t1, t2, beta)
			ib = i1 + (i2-i1)*beta
		} else {
			b = lerpi(t0, t1, beta)
			ib = i0 + (i1-i0)*beta
		}
		if a.X > b.X {
			a, b = b, a
			ia, ib = ib, ia
		}

		for j := a.X; j <= b.X; j++ {
			phi := 1.0
			if b.X != a.X {
				phi = float64(j-a.X) / float64(b.X-a.X)
			}
			p := lerpi(a, b, phi)
			if p.X < 0 || p.Y < 0 || p.X >= r.Width() || p.Y >= r.Height() {
				continue
			}
			z := float64(p.Z)
			if r.depth.Get(p.X, p.Y) < z {
				r.depth.Set(p.X, p.Y, z)
				if r.fb != nil {
					r.fb.SetPixel(p.X, p.Y, Gray(clampUnit(ia+(ib-ia)*phi)*255))
				}
			}
		}
	}
}

// lerpi interpolates between integer points and rounds the result.
func lerpi(a, b math3d.Vec3i, t float64) math3d.Vec3i {
	return a.Vec3().Add(b.Sub(a).Vec3().Scale(t)).Round()
}

func clampUnit(v float64) float64 {
	return min(max(v, 0), 1)
}
