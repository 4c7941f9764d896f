package index

import "github.com/vk/cookcli/internal/cooklang"

// DefaultExtension is the recipe file extension.
const DefaultExtension = ".cook"

type options struct {
	extension   string
	aliasLoader AliasLoader
	concurrency int
}

// Option configures an Index.
type Option func(*options)

// WithExtension sets the recipe file extension, including the dot.
func WithExtension(ext string) Option {
	return func(o *options) {
		if ext != "" {
			o.extension = ext
		}
	}
}

// WithAliasLoader replaces the function that reads a recipe's aliases.
func WithAliasLoader(fn AliasLoader) Option {
	return func(o *options) { o.aliasLoader = fn }
}

// WithConcurrency bounds how many recipe headers are read at once when the
// alias table is built.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		extension:   DefaultExtension,
		aliasLoader: cooklang.ReadAliases,
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
