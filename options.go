package slice3d

// DefaultChunkLimit is the cell budget of one chunk.
const DefaultChunkLimit = 10000

type Options struct {
	ChunkLimit int        `toml:"chunk_limit"`
	Precision  float64    `toml:"precision"`
	Bowtie     BowtieMode `toml:"bowtie"`
	Workers    int        `toml:"workers"`
}

type Option func(*Options)

func DefaultOptions() Options {
	return Options{
		ChunkLimit: DefaultChunkLimit,
		Bowtie:     BowtieSeparate,
		Workers:    1,
	}
}

// WithChunkLimit bounds the number of cells materialized at once.
func WithChunkLimit(n int) Option {
	return func(o *Options) { o.ChunkLimit = n }
}

// WithPrecision sets the epsilon used by sign tests. A vertex is below the
// cut only when its value is less than -eps.
func WithPrecision(eps float64) Option {
	return func(o *Options) { o.Precision = eps }
}

func WithBowtie(m BowtieMode) Option {
	return func(o *Options) { o.Bowtie = m }
}

// WithWorkers slices up to n chunks concurrently. Output order does not
// depend on n.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithOptions replaces every setting at once, e.g. with values decoded
// from a scene file.
func WithOptions(src Options) Option {
	return func(o *Options) { *o = src }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.ChunkLimit <= 0 {
		o.ChunkLimit = DefaultChunkLimit
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Precision < 0 {
		o.Precision = -o.Precision
	}
	return o
}
