package geom

import (
	"math"

	"golang.org/x/image/math/f32"
)

// Matrices are column-major, ready for upload with transpose false.

// Ident16fv returns the identity matrix.
func Ident16fv() f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Scale16fv returns a scale matrix.
func Scale16fv(x, y, z float32) f32.Mat4 {
	return f32.Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// Translate16fv returns a translation matrix.
func Translate16fv(x, y, z float32) f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// RotateY16fv returns rotation about the y axis by deg degrees.
func RotateY16fv(deg float32) f32.Mat4 {
	r := deg * math.Pi / 180
	c, s := cos(r), sin(r)
	return f32.Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// Mul16fv returns the product a*b.
func Mul16fv(a, b f32.Mat4) (m f32.Mat4) {
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var x float32
			for k := 0; k < 4; k++ {
				x += a[k*4+r] * b[c*4+k]
			}
			m[c*4+r] = x
		}
	}
	return m
}

// Transform16fv returns m*v.
func Transform16fv(m f32.Mat4, v f32.Vec4) (o f32.Vec4) {
	for r := 0; r < 4; r++ {
		o[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*v[3]
	}
	return o
}

// LookAt16fv returns a right-handed view matrix.
func LookAt16fv(eye, center, up f32.Vec3) f32.Mat4 {
	f := norm3fv(sub3fv(center, eye))
	s := norm3fv(cross3fv(f, up))
	u := cross3fv(s, f)
	return f32.Mat4{
		s[0], u[0], -f[0], 0,
		s[1], u[1], -f[1], 0,
		s[2], u[2], -f[2], 0,
		-dot3fv(s, eye), -dot3fv(u, eye), dot3fv(f, eye), 1,
	}
}

func sub3fv(a, b f32.Vec3) f32.Vec3 { return f32.Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func dot3fv(a, b f32.Vec3) float32  { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func cross3fv(a, b f32.Vec3) f32.Vec3 {
	return f32.Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func norm3fv(a f32.Vec3) f32.Vec3 {
	n := float32(math.Sqrt(float64(dot3fv(a, a))))
	if n == 0 {
		return a
	}
	return f32.Vec3{a[0] / n, a[1] / n, a[2] / n}
}
