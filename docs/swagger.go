// Package docs Municipal Boundary Service API.
//
// Resolves a WGS84 coordinate pair to the South African administrative
// hierarchy containing it: province, district and local municipality.
// Backed by an in-memory boundary index over the municipal demarcation
// dataset, with MapIt as remote fallback for uncovered points.
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
