package rocket

import (
	"errors"
	"strings"
)

const (
	// G is the gravitational constant in m^3 kg^-1 s^-2.
	G = 6.67430e-11
)

// CelestialObject defines the body the rocket is attracted by.
type CelestialObject struct {
	Name   string
	Radius float64 // meters
	Mass   float64 // kg
}

// GM returns the gravitational parameter of this object.
func (c CelestialObject) GM() float64 {
	return G * c.Mass
}

// SurfaceGravity returns the magnitude of the gravitational acceleration at the surface.
func (c CelestialObject) SurfaceGravity() float64 {
	return c.GM() / (c.Radius * c.Radius)
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial object is the same.
func (c *CelestialObject) Equals(b CelestialObject) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.Mass == b.Mass
}

// CelestialObjectFromString returns the object from its name.
func CelestialObjectFromString(name string) (CelestialObject, error) {
	switch strings.ToLower(name) {
	case "earth":
		return Earth, nil
	case "moon":
		return Moon, nil
	case "mars":
		return Mars, nil
	default:
		return CelestialObject{}, errors.New("undefined planet '" + name + "'")
	}
}

/* Definitions */

// Earth is home.
var Earth = CelestialObject{"Earth", 6.371e6, 5.972e24}

// Moon is our closest neighbor.
var Moon = CelestialObject{"Moon", 1.7374e6, 7.342e22}

// Mars is the vacation place.
var Mars = CelestialObject{"Mars", 3.3895e6, 6.4171e23}
