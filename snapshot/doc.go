/*
Package snapshot publishes the token catalogs of enumeration types to a shared Store,
so that processes without the Go declarations, or running an older release, can validate tokens.

	store := snapshot.NewRedisStore(opts, "enum:", 0)
	if err := snapshot.Publish(ctx, store); err != nil {
		// handle
	}

	err := snapshot.Validate(ctx, store, `Calendar::DayOfWeek::{i:1;}`)
*/
package snapshot
