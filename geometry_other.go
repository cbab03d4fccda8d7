//go:build !unix

package main

func queryGeometry() (Geometry, bool) {
	return Geometry{}, false
}
