package gfx

import (
	"fmt"
	"image"
	"sync"
)

// Call is one operation seen by a Recorder.
type Call struct {
	Op    string
	Label string
	Name  string
	Value any
}

// Recorder is a headless Device. It keeps every call in order and the
// last value of each uniform per shader, which is all the game needs when
// no window is open.
type Recorder struct {
	mu    sync.Mutex
	calls []Call

	// CompileErr, when set, fails every CompileShader call.
	CompileErr error

	frames int
	inPass bool
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallsOf filters calls by op.
func (r *Recorder) CallsOf(op string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *Recorder) CompileShader(label string, sources []ShaderSource) (Shader, error) {
	if r.CompileErr != nil {
		return nil, r.CompileErr
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("shader %s: no stages", label)
	}
	seen := make(map[Stage]bool)
	for _, s := range sources {
		if seen[s.Stage] {
			return nil, fmt.Errorf("shader %s: duplicate %s stage", label, s.Stage)
		}
		seen[s.Stage] = true
	}
	r.record(Call{Op: "compile", Label: label})
	return &RecordedShader{rec: r, label: label, uniforms: make(map[string]any)}, nil
}

func (r *Recorder) UploadMesh(label string, vertices []Vertex, indices []uint32) (Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("mesh %s: empty geometry", label)
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, fmt.Errorf("mesh %s: index %d out of range", label, i)
		}
	}
	r.record(Call{Op: "upload_mesh", Label: label, Value: len(vertices)})
	return &RecordedMesh{rec: r, label: label, vertices: len(vertices), indices: len(indices)}, nil
}

func (r *Recorder) UploadTexture(label string, img *image.RGBA) (Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("texture %s: nil image", label)
	}
	b := img.Bounds()
	r.record(Call{Op: "upload_texture", Label: label})
	return &RecordedTexture{rec: r, label: label, w: b.Dx(), h: b.Dy()}, nil
}

func (r *Recorder) BeginFrame(clear Color) error {
	r.mu.Lock()
	if r.inPass {
		r.mu.Unlock()
		return fmt.Errorf("frame already open")
	}
	r.inPass = true
	r.mu.Unlock()
	r.record(Call{Op: "begin_frame", Value: clear})
	return nil
}

func (r *Recorder) EndFrame() error {
	r.mu.Lock()
	if !r.inPass {
		r.mu.Unlock()
		return fmt.Errorf("no open frame")
	}
	r.inPass = false
	r.frames++
	r.mu.Unlock()
	r.record(Call{Op: "end_frame"})
	return nil
}

type RecordedShader struct {
	rec      *Recorder
	label    string
	mu       sync.Mutex
	uniforms map[string]any
}

func (s *RecordedShader) Label() string { return s.label }

func (s *RecordedShader) Bind() {
	s.rec.record(Call{Op: "bind_shader", Label: s.label})
}

func (s *RecordedShader) SetUniform(name string, value any) {
	if !ValidUniform(value) {
		s.rec.record(Call{Op: "bad_uniform", Label: s.label, Name: name, Value: value})
		return
	}
	s.mu.Lock()
	s.uniforms[name] = value
	s.mu.Unlock()
	s.rec.record(Call{Op: "uniform", Label: s.label, Name: name, Value: value})
}

// Uniform returns the last value pushed under name.
func (s *RecordedShader) Uniform(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.uniforms[name]
	return v, ok
}

func (s *RecordedShader) Release() {
	s.rec.record(Call{Op: "release_shader", Label: s.label})
}

type RecordedMesh struct {
	rec      *Recorder
	label    string
	vertices int
	indices  int
}

func (m *RecordedMesh) Label() string   { return m.label }
func (m *RecordedMesh) VertexCount() int { return m.vertices }
func (m *RecordedMesh) IndexCount() int  { return m.indices }

func (m *RecordedMesh) Draw() {
	m.rec.record(Call{Op: "draw", Label: m.label, Value: m.indices})
}

func (m *RecordedMesh) Release() {
	m.rec.record(Call{Op: "release_mesh", Label: m.label})
}

type RecordedTexture struct {
	rec   *Recorder
	label string
	w, h  int
}

func (t *RecordedTexture) Label() string { return t.label }

func (t *RecordedTexture) Bind(slot int) {
	t.rec.record(Call{Op: "bind_texture", Label: t.label, Value: slot})
}

func (t *RecordedTexture) Size() (int, int) { return t.w, t.h }

func (t *RecordedTexture) Release() {
	t.rec.record(Call{Op: "release_texture", Label: t.label})
}
