// Package omarchive builds open metadata archives: versioned bundles of
// type definitions and instances that a metadata repository loads at
// startup.
//
// An archive is described by a content pack, a YAML document listing enums,
// entity, relationship and classification types, patches to existing types,
// and instances. Generate applies the pack to a fresh type registry seeded
// with the archives it depends on, writes the resulting snapshot as JSON or
// YAML and records every generated GUID in an identifier map, so rebuilding
// the same pack yields the same GUIDs.
//
// Features:
//
//   - **Consistent Registry**: duplicate types, clashing relationship end
//     names and blank names are rejected as they are added.
//   - **Dependencies**: types from other archives can be extended, patched
//     and referenced without being copied.
//   - **Stable GUIDs**: identifier maps keep GUIDs across rebuilds and drop
//     entries that are no longer used.
//   - **Atomic Writes**: archives and maps are replaced via rename.
//
// Usage:
//
//	res, err := omarchive.Generate(ctx, "inventory.yaml",
//		omarchive.WithDependencyDir("./archives", ""),
//		omarchive.WithLogger(logger),
//	)
//
// Lower-level building blocks live in pkg/builder (the registry), pkg/helper
// (definition factory) and pkg/guidmap (identifier map).
package omarchive
