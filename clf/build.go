package clf

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"path/filepath"
	"slices"
)

// Build is a set of layer files queried as one volume, for example the part,
// support and net files of one job.
type Build struct {
	files     []*File
	box       Box
	thickness float32
}

// NewBuild groups already opened files.
func NewBuild(files ...*File) (*Build, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	b := &Build{
		files:     slices.Clone(files),
		box:       files[0].Box(),
		thickness: files[0].Thickness(),
	}
	for _, f := range files[1:] {
		b.box = b.box.Union(f.Box())
		b.thickness = min(b.thickness, f.Thickness())
	}
	return b, nil
}

// OpenBuild opens every path and groups the files. If any file fails to
// open, those already opened are closed again.
func OpenBuild(paths []string, opts ...Option) (*Build, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	files := make([]*File, 0, len(paths))
	for _, p := range paths {
		f, err := Open(p, opts...)
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, err
		}
		files = append(files, f)
	}
	return NewBuild(files...)
}

// OpenPattern opens one file per label, naming each with
// fmt.Sprintf(format, label).
func OpenPattern(format string, labels []int, opts ...Option) (*Build, error) {
	paths := make([]string, len(labels))
	for i, label := range labels {
		paths[i] = fmt.Sprintf(format, label)
	}
	return OpenBuild(paths, opts...)
}

// OpenGlob opens every file matching pattern, in lexical order.
func OpenGlob(pattern string, opts ...Option) (*Build, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: nothing matches %s", ErrNoFiles, pattern)
	}
	return OpenBuild(paths, opts...)
}

// Add returns a build holding the files of b followed by those of o.
func (b *Build) Add(o *Build) *Build {
	return &Build{
		files:     slices.Concat(b.files, o.files),
		box:       b.box.Union(o.box),
		thickness: min(b.thickness, o.thickness),
	}
}

// Files returns the files of the build in order.
func (b *Build) Files() []*File {
	return b.files
}

// Box returns the union of the files' bounding boxes.
func (b *Build) Box() Box {
	return b.box
}

// Thickness returns the smallest thickness of all files.
func (b *Build) Thickness() float32 {
	return b.thickness
}

// Find returns the shapes of every file at height z merged into one layer.
func (b *Build) Find(z float64) (*Layer, error) {
	ll, err := b.FindEach(z)
	if err != nil {
		return nil, err
	}
	return ll.Merge(), nil
}

// FindEach returns the layer found at height z in each file, in file order.
func (b *Build) FindEach(z float64) (LayerList, error) {
	ll := make(LayerList, len(b.files))
	for i, f := range b.files {
		l, err := f.Find(z)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
		ll[i] = l
	}
	return ll, nil
}

// Forward walks the build upwards, from the bottom of the box unless Start
// is given, in steps of the build thickness unless Step is given. It stops
// before reaching the top of the box. Every step performs a fresh Find.
func (b *Build) Forward(opts ...StepOption) iter.Seq2[LayerList, error] {
	o := b.stepOptions(opts)
	start := float64(b.box.Min[2])
	if o.hasStart {
		start = o.start
	}
	top := float64(b.box.Max[2])

	return func(yield func(LayerList, error) bool) {
		if err := checkStep(o.step); err != nil {
			yield(nil, err)
			return
		}
		for z := start; z < top; z += o.step {
			ll, err := b.FindEach(z)
			if !yield(ll, err) || err != nil {
				return
			}
		}
	}
}

// Backward walks the build downwards from the top of the box unless Start
// is given. Each step moves down before querying, so the start height
// itself is not visited.
func (b *Build) Backward(opts ...StepOption) iter.Seq2[LayerList, error] {
	o := b.stepOptions(opts)
	start := float64(b.box.Max[2])
	if o.hasStart {
		start = o.start
	}
	bottom := float64(b.box.Min[2])

	return func(yield func(LayerList, error) bool) {
		if err := checkStep(o.step); err != nil {
			yield(nil, err)
			return
		}
		for z := start; z > bottom; {
			z -= o.step
			ll, err := b.FindEach(z)
			if !yield(ll, err) || err != nil {
				return
			}
		}
	}
}

// All walks the build upwards in steps of its thickness, yielding merged
// layers.
func (b *Build) All() iter.Seq2[*Layer, error] {
	return func(yield func(*Layer, error) bool) {
		for ll, err := range b.Forward() {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(ll.Merge(), nil) {
				return
			}
		}
	}
}

// Close closes every file of the build.
func (b *Build) Close() error {
	var errs []error
	for _, f := range b.files {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

func (b *Build) stepOptions(opts []StepOption) stepOptions {
	var o stepOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasStep {
		o.step = float64(b.thickness)
	}
	return o
}

func checkStep(dz float64) error {
	if math.IsNaN(dz) || dz <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidStep, dz)
	}
	return nil
}
