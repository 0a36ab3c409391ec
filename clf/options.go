package clf

// Option configures how a file is opened.
type Option func(*fileOptions)

type fileOptions struct {
	eager bool
	cache bool
}

func defaultFileOptions() *fileOptions {
	return &fileOptions{}
}

// WithEagerLoad decodes every layer while opening, by scanning the file
// from the header to the end-of-file marker.
func WithEagerLoad() Option {
	return func(o *fileOptions) {
		o.eager = true
	}
}

// WithLazyLoad reads only the seek table while opening and decodes layers
// on demand. This is the default.
func WithLazyLoad() Option {
	return func(o *fileOptions) {
		o.eager = false
	}
}

// WithLayerCache keeps lazily decoded layers in memory after their first
// load.
func WithLayerCache() Option {
	return func(o *fileOptions) {
		o.cache = true
	}
}

// StepOption configures a layer walk over a build.
type StepOption func(*stepOptions)

type stepOptions struct {
	start    float64
	hasStart bool
	step     float64
	hasStep  bool
}

// Start sets the first height of a walk. The default is the bottom of the
// build for Forward and the top for Backward.
func Start(z float64) StepOption {
	return func(o *stepOptions) {
		o.start = z
		o.hasStart = true
	}
}

// Step sets the distance between heights of a walk. The default is the
// build's layer thickness.
func Step(dz float64) StepOption {
	return func(o *stepOptions) {
		o.step = dz
		o.hasStep = true
	}
}
