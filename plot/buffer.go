package plot

// Kind names a class of GPU resource kept in sync by the core.
type Kind uint8

const (
	AxisPositions Kind = iota // x of each axis, indexed by axis
	LineIndices               // main polyline index buffer
	LineColors                // rgba per line
	AxisQuads                 // hitbox quads of axes, xy + rgba per vertex
	SelectionRect             // box select outline, xy per corner
	MiddleIndices             // per expansion, indices of the absorbed segment
	HandleQuads               // per expansion, both handle quads
	HighlightQuad             // per expansion, overlay between anchors
)

var kindNames = [...]string{
	"AxisPositions", "LineIndices", "LineColors", "AxisQuads",
	"SelectionRect", "MiddleIndices", "HandleQuads", "HighlightQuad",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Buffer identifies a resource; ID distinguishes per expansion resources.
type Buffer struct {
	Kind Kind
	ID   int
}

// Uploader receives full or offset replacements of buffer contents.
// Implementations must not retain data after returning.
type Uploader interface {
	UploadFloats(buf Buffer, offset int, data []float32)
	UploadIndices(buf Buffer, offset int, data []uint32)
}

// Discard is an Uploader that drops everything.
var Discard Uploader = discard{}

type discard struct{}

func (discard) UploadFloats(Buffer, int, []float32) {}
func (discard) UploadIndices(Buffer, int, []uint32) {}
