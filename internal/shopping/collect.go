package shopping

import (
	"context"
	"fmt"

	"github.com/vk/cookcli/internal/resolve"
)

// Resolver resolves recipe references.
type Resolver interface {
	Resolve(ctx context.Context, reference string, opts resolve.Options) (*resolve.Resolution, error)
}

// Collect resolves "ref[:factor]" arguments into scaled inputs, labelled
// with the reference. The first failing argument aborts; its error wraps
// the resolver's, so errors.Is(err, resolve.ErrAmbiguous) and friends hold.
func Collect(ctx context.Context, r Resolver, args []string, fuzzy bool) ([]Input, error) {
	inputs := make([]Input, 0, len(args))
	for _, arg := range args {
		ref, factor, err := ParseRef(arg)
		if err != nil {
			return nil, err
		}
		res, err := r.Resolve(ctx, ref, resolve.Options{Fuzzy: fuzzy})
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", ref, err)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		doc := res.Document
		if factor != 1 {
			doc = doc.Scale(factor)
		}
		inputs = append(inputs, Input{Label: ref, Document: doc})
	}
	return inputs, nil
}
