package knife

// Fixed tolerances shared by every comparison in the engine. They are not
// configurable per call.
const (
	// PositionEpsilon is the distance, in model units, below which two
	// positions are the same point.
	PositionEpsilon = 1e-6

	// MinInteriorAngle and MaxInteriorAngle bound every interior angle of a
	// face built by the splitter, in degrees. Faces outside the range are
	// near-degenerate or concave.
	MinInteriorAngle = 1.0
	MaxInteriorAngle = 178.0

	// AreaTolerance is the relative area mismatch allowed between a face and
	// the faces that replace it.
	AreaTolerance = 1e-6

	// EdgeEndSnap is the fraction of an edge within which an edge hit is
	// treated as a hit on the edge's end vertex.
	EdgeEndSnap = 1e-6
)
