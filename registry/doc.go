// Package registry resolves connection identifiers into ConnectionSpecs.
//
// A Source looks up raw registry entries. Sources can be the persisted BadgerDB
// repository, environment variables, a static map, or a Chain of those. The
// Resolver turns an entry into a typed core.ConnectionSpec: absent credentials
// stay nil and the free-form extension map is decoded into core.Extras.
//
//	resolver := registry.NewResolver(registry.Chain(
//	    registry.NewEnvSource(),
//	    repo,
//	))
//	spec, err := resolver.Resolve(ctx, "milvus_default")
//	if errors.Is(err, core.ErrConnectionNotFound) {
//	    // unknown identifier
//	}
package registry
