// Package session keeps the per-project state template resolution depends
// on: the template path mapping and the bundles present in the tree.
//
// A Session starts empty. Load reads every ide-twig.json, the Symfony twig
// configuration (config/packages/twig.yaml, app/config/config.yml) and
// discovers bundle directories concurrently, then publishes an immutable
// Snapshot. Invalidate drops it again. Each replacement bumps the
// generation so callers can key caches on it:
//
//	sess := session.New(filetree.NewOS(root), session.WithLogger(logger))
//	if err := sess.Load(ctx); err != nil {
//	    return err
//	}
//	mapping := sess.Mapping()
//
// Queries never block a reload for longer than it takes to copy the
// snapshot pointer.
package session
