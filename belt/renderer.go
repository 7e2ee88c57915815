package belt

import "errors"

// ErrUnknownHandle is returned by renderers asked to release geometry they
// don't hold, for example because it was already removed.
var ErrUnknownHandle = errors.New("unknown render handle")

// Handle identifies one piece of geometry created by a [Renderer].
type Handle string

// Renderer turns belt segments into visible geometry.
//
// Renderers must be safe for concurrent use, as several belts may render
// through the same renderer at once.
type Renderer interface {
	CreateSegment(seg Segment) (Handle, error)
	// Release removes geometry. Releasing a handle the renderer doesn't hold
	// returns an error wrapping ErrUnknownHandle.
	Release(h Handle) error
}

// MarkerRenderer is implemented by renderers that can show debug markers.
type MarkerRenderer interface {
	Renderer
	CreateMarker(m Marker) (Handle, error)
}

// MeshRenderer is implemented by renderers that can show belt meshes.
type MeshRenderer interface {
	Renderer
	CreateMesh(m Mesh) (Handle, error)
}
