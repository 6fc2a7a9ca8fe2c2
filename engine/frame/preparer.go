package frame

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-shade/config"
	"github.com/Carmen-Shannon/oxy-shade/engine/binding"
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/material"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shade/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// Draw is one object to render this frame.
type Draw struct {
	Name string
	// Model is the object's world transform.
	Model mgl32.Mat4
	// Material names an entry of the material library. Unknown names bind the fallback.
	Material string
}

// ErrClosed is returned by Prepare after Close.
var ErrClosed = errors.New("preparer is closed")

// DrawData holds the writes for one draw. Draw i owns bytes [i*Stride, (i+1)*Stride)
// of the Uniforms and Materials buffers and binds them with dynamic offset i*Stride.
type DrawData struct {
	Name     string
	Uniforms binding.BufferWrite
	Material binding.BufferWrite
	// Err is the draw's transform error, if any. Under the fallback policy the
	// uniforms are still usable.
	Err error
}

// Frame is a complete, immutable set of buffer writes. Readers get it whole through
// Preparer.Current.
type Frame struct {
	Index      uint64
	Camera     camera.State
	LightCount int
	// Stride is the spacing of per-draw records, see DrawStride.
	Stride           uint64
	Lights           binding.BufferWrite
	FragmentUniforms binding.BufferWrite
	Draws            []DrawData
}

// Writes returns every buffer write of the frame: lights, fragment block, then each
// draw's uniforms and material.
func (f *Frame) Writes() []binding.BufferWrite {
	out := make([]binding.BufferWrite, 0, 2+2*len(f.Draws))
	out = append(out, f.Lights, f.FragmentUniforms)
	for _, d := range f.Draws {
		out = append(out, d.Uniforms, d.Material)
	}
	return out
}

// Bytes returns the total number of bytes the frame writes.
func (f *Frame) Bytes() int {
	n := 0
	for _, w := range f.Writes() {
		n += len(w.Data)
	}
	return n
}

// PreparerOption configures a Preparer.
type PreparerOption func(*Preparer)

// WithRegistry replaces the default registry.
//
// Parameters:
//   - r: the registry shaders are compiled against
//
// Returns:
//   - PreparerOption: a function that sets the registry
func WithRegistry(r *binding.Registry) PreparerOption {
	return func(p *Preparer) {
		p.registry = r
	}
}

// WithShadowCaster replaces the default sun shadow volume.
//
// Parameters:
//   - c: the shadow caster
//
// Returns:
//   - PreparerOption: a function that sets the caster
func WithShadowCaster(c transform.ShadowCaster) PreparerOption {
	return func(p *Preparer) {
		p.shadow = c
	}
}

// WithProfiler reports every prepared frame to prof.
//
// Parameters:
//   - prof: the profiler
//
// Returns:
//   - PreparerOption: a function that sets the profiler
func WithProfiler(prof *profiler.Profiler) PreparerOption {
	return func(p *Preparer) {
		p.profiler = prof
	}
}

// Preparer turns scene state into a Frame. Draws are prepared on a worker pool;
// Prepare itself must not be called concurrently.
type Preparer struct {
	cfg       config.Config
	registry  *binding.Registry
	builder   *transform.Builder
	assembler *light.Assembler
	library   *material.Library
	shadow    transform.ShadowCaster
	profiler  *profiler.Profiler

	stride  uint64
	pool    *drawPool
	closed  atomic.Bool
	current atomic.Pointer[Frame]
	frames  atomic.Uint64
	tasks   atomic.Int64
}

// NewPreparer validates cfg, verifies every selected layout against its WGSL
// declaration and the registry, and creates a Preparer. The preparer owns a worker
// pool; call Close when done with it.
//
// Parameters:
//   - cfg: the pipeline configuration
//   - library: the material library; its schema must match cfg
//   - options: functional options
//
// Returns:
//   - *Preparer: the preparer
//   - error: non-nil if the configuration is invalid or any layout disagrees
func NewPreparer(cfg config.Config, library *material.Library, options ...PreparerOption) (*Preparer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if got, want := library.Selector().Schema(), cfg.MaterialSchema(); got != want {
		return nil, fmt.Errorf("material library uses schema %q, pipeline expects %q", got, want)
	}

	assembler, err := light.NewAssembler(cfg.Lights.Capacity)
	if err != nil {
		return nil, err
	}

	p := &Preparer{
		cfg:       cfg,
		registry:  binding.Default(),
		builder:   transform.NewBuilder(cfg.TransformPolicy()),
		assembler: assembler,
		library:   library,
		shadow:    transform.DefaultShadowCaster(),
		stride:    DrawStride(cfg),
	}
	for _, opt := range options {
		opt(p)
	}
	if err := VerifyLayouts(cfg, p.registry); err != nil {
		return nil, err
	}
	p.pool = newDrawPool(cfg.Pipeline.Workers, 256)
	return p, nil
}

// Close stops the worker pool. The current frame stays readable; Prepare returns
// ErrClosed afterwards. Close is safe to call more than once.
//
// Returns:
//   - error: always nil
func (p *Preparer) Close() error {
	if p.closed.CompareAndSwap(false, true) {
		p.pool.close()
	}
	return nil
}

// Stride returns the spacing of per-draw records in the Uniforms and Materials
// buffers.
func (p *Preparer) Stride() uint64 {
	return p.stride
}

// Current returns the last published frame, or nil before the first Prepare.
func (p *Preparer) Current() *Frame {
	return p.current.Load()
}

// Registry returns the registry the preparer verified against.
func (p *Preparer) Registry() *binding.Registry {
	return p.registry
}

// Vertices returns the write that uploads a mesh's interleaved vertices to the
// Vertices slot.
//
// Parameters:
//   - vertices: the mesh vertices
//
// Returns:
//   - binding.BufferWrite: the upload at offset 0
func (p *Preparer) Vertices(vertices []model.GPUVertex) binding.BufferWrite {
	return binding.BufferWrite{Slot: p.registry.Buffer(binding.BufferVertices), Data: model.MarshalVertices(vertices)}
}

// Prepare builds and publishes the frame for the given camera, lights and draws.
// Recoverable problems (a light overflow, draws with invalid transforms under the
// fallback policy) still publish a frame and are returned joined. Under the
// propagate policy a draw with an invalid transform fails the whole frame, and the
// previous frame stays current.
//
// Parameters:
//   - cam: the camera snapshot
//   - lights: the active lights in submission order
//   - draws: the objects to render
//
// Returns:
//   - *Frame: the published frame, or nil if nothing was published
//   - error: every problem encountered, joined
func (p *Preparer) Prepare(cam camera.State, lights []light.Light, draws []Draw) (*Frame, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}
	var errs []error

	arr, err := p.assembler.Assemble(lights)
	if err != nil {
		errs = append(errs, err)
	}

	// The caster follows the first sun that made it into the array.
	shadow := mgl32.Ident4()
	if p.cfg.Pipeline.Shadows {
		if toLight, ok := arr.Sun(); ok {
			shadow = p.shadow.Matrix(toLight)
		}
	}

	out := make([]DrawData, len(draws))
	var wg sync.WaitGroup
	for i := range draws {
		wg.Add(1)
		p.pool.submit(worker.Task{
			ID: int(p.tasks.Add(1)),
			Do: func() (any, error) {
				defer wg.Done()
				out[i] = p.prepareDraw(i, draws[i], cam, shadow)
				return nil, nil
			},
		})
	}
	wg.Wait()

	failed := false
	for _, d := range out {
		if d.Err != nil {
			errs = append(errs, fmt.Errorf("draw %q: %w", d.Name, d.Err))
			failed = failed || p.cfg.TransformPolicy() == transform.PolicyPropagate
		}
	}
	if failed {
		return nil, errors.Join(errs...)
	}

	var fragment []byte
	if p.cfg.Tiled() {
		fu := arr.TiledFragmentUniforms(cam.Position, p.cfg.Pipeline.Tiling)
		fragment = fu.Marshal()
	} else {
		fu := arr.FragmentUniforms(cam.Position)
		fragment = fu.Marshal()
	}

	f := &Frame{
		Index:            p.frames.Add(1),
		Camera:           cam,
		LightCount:       arr.Count(),
		Stride:           p.stride,
		Lights:           binding.BufferWrite{Slot: p.registry.Buffer(binding.BufferLights), Data: arr.Marshal()},
		FragmentUniforms: binding.BufferWrite{Slot: p.registry.Buffer(binding.BufferFragmentUniforms), Data: fragment},
		Draws:            out,
	}
	p.current.Store(f)

	if p.profiler != nil {
		p.profiler.Record(len(draws), f.Bytes())
	}
	return f, errors.Join(errs...)
}

// prepareDraw builds one draw's records. It writes nothing shared.
func (p *Preparer) prepareDraw(i int, d Draw, cam camera.State, shadow mgl32.Mat4) DrawData {
	var data []byte
	var err error
	if p.cfg.Pipeline.Shadows {
		var u transform.GPUShadowedUniforms
		u, err = p.builder.BuildShadowed(d.Model, cam.View, cam.Projection, shadow)
		data = u.Marshal()
	} else {
		var u transform.GPUUniforms
		u, err = p.builder.Build(d.Model, cam.View, cam.Projection)
		data = u.Marshal()
	}

	offset := uint64(i) * p.stride
	return DrawData{
		Name:     d.Name,
		Uniforms: binding.BufferWrite{Slot: p.registry.Buffer(binding.BufferUniforms), Offset: offset, Data: data},
		Material: binding.BufferWrite{Slot: p.registry.Buffer(binding.BufferMaterials), Offset: offset, Data: p.library.Resolve(d.Material).Marshal()},
		Err:      err,
	}
}
