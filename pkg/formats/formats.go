// Package formats reads and writes the documents used by the knife tool:
// YAML model documents holding meshes and boxes, YAML cut path documents,
// and STL exports of meshes.
package formats
