package graph

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-framegraph/common"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/asset"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/camera"
	"github.com/Carmen-Shannon/oxy-framegraph/engine/light"
)

// QueueHint is the draw-order hint of a queue.
type QueueHint int

const (
	// QueueHintNone is unordered, opaque first.
	QueueHintNone QueueHint = iota
	QueueHintOpaque
	QueueHintMask
	// QueueHintBlend sorts back to front.
	QueueHintBlend
)

// String returns the string representation of QueueHint.
func (h QueueHint) String() string {
	switch h {
	case QueueHintNone:
		return "none"
	case QueueHintOpaque:
		return "opaque"
	case QueueHintMask:
		return "mask"
	case QueueHintBlend:
		return "blend"
	default:
		return "unknown"
	}
}

// SceneFlag selects the drawable subset the scene collaborator returns.
type SceneFlag uint32

const (
	SceneOpaque SceneFlag = 1 << iota
	SceneMask
	SceneBlend
	SceneShadowCaster
	SceneGPUDriven
	SceneUI

	SceneNone SceneFlag = 0
)

// Has reports whether all bits of other are set.
func (f SceneFlag) Has(other SceneFlag) bool {
	return f&other == other
}

// LightBinding attaches a light to a scene draw.
type LightBinding struct {
	Light light.Light

	// Level is the shadow cascade index for main light shadow queues.
	Level int

	// CulledByLight culls drawables against the light volume instead of the
	// camera frustum.
	CulledByLight bool
}

// SceneBinding is one scene draw of a queue.
type SceneBinding struct {
	Camera       camera.Camera
	Flags        SceneFlag
	Light        LightBinding
	CullingID    uint32
	HasCullingID bool
}

// Quad is one fullscreen draw with a material pass.
type Quad struct {
	Material *asset.Material
	PassID   int
	Flags    SceneFlag
}

// Dispatch is one compute dispatch.
type Dispatch struct {
	X, Y, Z  uint32
	Material *asset.Material
}

// Queue is an ordered list of draws inside a pass. Queues are created by
// AddQueue on an open pass and stop accepting draws once the pass closes.
type Queue struct {
	Hint        QueueHint
	Name        string
	Viewport    common.Rect
	HasViewport bool

	Scenes     []SceneBinding
	Quads      []Quad
	Dispatches []Dispatch

	owner *passBuilder
}

// DrawCount returns the number of scene, quad and dispatch entries.
func (q *Queue) DrawCount() int {
	return len(q.Scenes) + len(q.Quads) + len(q.Dispatches)
}

// AddScene binds a CPU-culled scene draw, optionally lit by one light.
// Flags containing SceneGPUDriven are rejected; use AddCulledScene.
//
// Parameters:
//   - cam: the camera whose scene is drawn
//   - flags: drawable subset
//   - lb: light binding, zero value for none
//
// Returns:
//   - *Queue: the queue, for chaining
func (q *Queue) AddScene(cam camera.Camera, flags SceneFlag, lb LightBinding) *Queue {
	if !q.owner.usable() {
		return q
	}
	if flags.Has(SceneGPUDriven) {
		q.owner.stick(fmt.Errorf("%w: queue %q in pass %q has GPU-driven scene without culling id",
			ErrUnknownCullingID, q.Name, q.owner.pass.Name))
		return q
	}
	q.Scenes = append(q.Scenes, SceneBinding{Camera: cam, Flags: flags, Light: lb})
	return q
}

// AddCulledScene binds a GPU-driven scene draw gated by the visibility output
// of an earlier culling pass.
//
// Parameters:
//   - cam: the camera whose scene is drawn
//   - flags: drawable subset; SceneGPUDriven is added
//   - cullingID: id of an AddCullingPass declared earlier this frame
//
// Returns:
//   - *Queue: the queue, for chaining
func (q *Queue) AddCulledScene(cam camera.Camera, flags SceneFlag, cullingID uint32) *Queue {
	if !q.owner.usable() {
		return q
	}
	if _, ok := q.owner.g.cullingIDs[cullingID]; !ok {
		q.owner.stick(fmt.Errorf("%w: %d used by queue %q in pass %q",
			ErrUnknownCullingID, cullingID, q.Name, q.owner.pass.Name))
		return q
	}
	q.Scenes = append(q.Scenes, SceneBinding{
		Camera:       cam,
		Flags:        flags | SceneGPUDriven,
		CullingID:    cullingID,
		HasCullingID: true,
	})
	return q
}

// SetViewport overrides the pass viewport for this queue.
//
// Parameters:
//   - vp: viewport in pixels
//
// Returns:
//   - *Queue: the queue, for chaining
func (q *Queue) SetViewport(vp common.Rect) *Queue {
	if !q.owner.usable() {
		return q
	}
	q.Viewport = vp
	q.HasViewport = true
	return q
}

// AddFullscreenQuad draws one material pass over the whole viewport. A nil
// material or a pass the material does not have records an ErrMissingAsset
// hazard and the draw is skipped; the next frame retries.
//
// Parameters:
//   - mat: the material, nil while still loading
//   - passID: index of the fragment entry point
//   - flags: scene flags forwarded to the executor
//
// Returns:
//   - *Queue: the queue, for chaining
func (q *Queue) AddFullscreenQuad(mat *asset.Material, passID int, flags SceneFlag) *Queue {
	if !q.owner.usable() {
		return q
	}
	if !mat.HasPass(passID) {
		q.owner.g.hazard(ErrMissingAsset, q.owner.pass.Name, materialName(mat),
			"queue", q.Name, "passID", passID)
		return q
	}
	q.Quads = append(q.Quads, Quad{Material: mat, PassID: passID, Flags: flags})
	return q
}

// AddDispatch records a compute dispatch. A nil material or one without a
// compute entry point records an ErrMissingAsset hazard and is skipped.
//
// Parameters:
//   - x, y, z: workgroup counts
//   - mat: the compute material
//
// Returns:
//   - *Queue: the queue, for chaining
func (q *Queue) AddDispatch(x, y, z uint32, mat *asset.Material) *Queue {
	if !q.owner.usable() {
		return q
	}
	if mat == nil || mat.ComputeEntries == 0 {
		q.owner.g.hazard(ErrMissingAsset, q.owner.pass.Name, materialName(mat), "queue", q.Name)
		return q
	}
	q.Dispatches = append(q.Dispatches, Dispatch{X: x, Y: y, Z: z, Material: mat})
	return q
}

func materialName(mat *asset.Material) string {
	if mat == nil {
		return "<nil>"
	}
	return mat.Name
}
