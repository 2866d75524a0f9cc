// Package formats provides parsers for the mesh file formats the viewer reads.
package formats

// Note: the OBJ subset (v / vn / f p//n) is implemented in obj.go
