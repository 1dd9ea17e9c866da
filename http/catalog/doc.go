/*
Package catalog serves the process catalog of enumeration types over HTTP.

Programs that do not link the Go declarations of a set of enumeration types,
such as services written in other languages or scripts checking configuration,
use the catalog to list types and to check tokens and member names against them.

The routes are:

	GET  /types          every Type, abstract or not
	GET  /types/{name}   one Type along with a snapshot of its values
	GET  /decode         the value the "token" query param represents
	GET  /parse          the member the "name" query param names
	POST /validate       whether each of a JSON body's "tokens" represents a value

Both /decode and /parse take an optional "type" query param naming the Type expected.
Without it, any Type is accepted.

The catalog never creates values. /decode answers 404 for a payload of a dynamic Type
this process has not interned, and /validate reports such a token valid when it is well-formed.

Every response is JSON: successful ones hold a "data" key,
failed ones an "error" key and, for malformed requests, "validationErrors".

Every route runs behind the middleware.Adapter chain of package middleware,
configured by a *config.Config:

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	srv := catalog.New(cfg, catalog.WithStore(store))
	if err := srv.Guide(context.Background()); err != nil {
		log.Fatal(err)
	}
*/
package catalog
