package orbital

import (
	"math"

	"gonum.org/v1/gonum/mat"

	astromath "github.com/oxygene76/kepler-orbit/pkg/astronomy/math"
)

// OrbitalPlane returns the position in the orbital plane with the focus at
// the origin and periapsis on +x. Units follow a.
func OrbitalPlane(a, e, E float64) (xp, yp float64) {
	xp = a * (math.Cos(E) - e)
	yp = a * math.Sqrt(1-e*e) * math.Sin(E)
	return xp, yp
}

// ToEcliptic rotates orbital-plane coordinates by the argument of periapsis,
// inclination and ascending node (radians) and returns the ecliptic x/y.
func ToEcliptic(xp, yp, wp, inc, node float64) astromath.Vector2 {
	cosW, sinW := math.Cos(wp), math.Sin(wp)
	cosO, sinO := math.Cos(node), math.Sin(node)
	cosI := math.Cos(inc)

	x := xp*(cosW*cosO-sinW*sinO*cosI) + yp*(-sinW*cosO-cosW*sinO*cosI)
	y := xp*(cosW*sinO+sinW*cosO*cosI) + yp*(-sinW*sinO+cosW*cosO*cosI)

	return astromath.Vector2{X: x, Y: y}
}

// RotationMatrix returns Rz(node)·Rx(inc)·Rz(wp), the orbital-plane to
// ecliptic rotation.
func RotationMatrix(wp, inc, node float64) *mat.Dense {
	var r mat.Dense
	r.Product(rotZ(node), rotX(inc), rotZ(wp))
	return &r
}

// ToEcliptic3D applies RotationMatrix to (xp, yp, 0). The x and y components
// agree with ToEcliptic; z is the height above the ecliptic.
func ToEcliptic3D(xp, yp, wp, inc, node float64) astromath.Vector3 {
	var out mat.VecDense
	out.MulVec(RotationMatrix(wp, inc, node), mat.NewVecDense(3, []float64{xp, yp, 0}))
	return astromath.Vector3{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

func rotZ(theta float64) *mat.Dense {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

func rotX(theta float64) *mat.Dense {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}
