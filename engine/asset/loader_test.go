package asset

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

const blitWGSL = `
@vertex fn vs(@builtin(vertex_index) i: u32) -> @builtin(position) vec4f { return vec4f(0.0); }
@fragment fn copy() -> @location(0) vec4f { return vec4f(1.0); }
@fragment fn swizzle() -> @location(0) vec4f { return vec4f(0.5); }
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"shaders/blit.wgsl":  {Data: []byte(blitWGSL)},
		"shaders/empty.wgsl": {Data: []byte("// nothing here")},
	}
}

func TestLoadBecomesReady(t *testing.T) {
	l := NewLoader(WithFS(testFS()))

	if err := l.Load("blit", "shaders/blit.wgsl"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	l.Wait()

	m, ok := l.Material("blit")
	if !ok {
		st, err := l.Status("blit")
		t.Fatalf("Material(blit) not ready: status %v, err %v", st, err)
	}
	if m.Passes != 2 {
		t.Errorf("Passes = %d, want 2", m.Passes)
	}
	if !m.HasPass(1) || m.HasPass(2) {
		t.Errorf("HasPass() mismatch for %d passes", m.Passes)
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing file", "shaders/missing.wgsl", fs.ErrNotExist},
		{"no entry point", "shaders/empty.wgsl", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(WithFS(testFS()))
			if err := l.Load("m", tt.path); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			l.Wait()

			if _, ok := l.Material("m"); ok {
				t.Errorf("Material() ready, want not ready")
			}
			st, err := l.Status("m")
			if st != StatusFailed || err == nil {
				t.Errorf("Status() = %v, %v, want Failed with error", st, err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Status() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	l := NewLoader(WithFS(testFS()))
	if err := l.Load("m", "textures/albedo.png"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load() error = %v, want ErrUnsupportedFormat", err)
	}
	if st, _ := l.Status("m"); st != StatusUnknown {
		t.Errorf("Status() = %v, want Unknown", st)
	}
}

func TestRegisterAndPreload(t *testing.T) {
	pre := &Material{Name: "pre", Passes: 1}
	l := NewLoader(WithMaterial(pre))
	l.Register(&Material{Name: "reg", Passes: 1})

	for _, name := range []string{"pre", "reg"} {
		if _, ok := l.Material(name); !ok {
			t.Errorf("Material(%q) not ready", name)
		}
	}
	if _, ok := l.Material("unknown"); ok {
		t.Errorf("Material(unknown) ready")
	}
}
