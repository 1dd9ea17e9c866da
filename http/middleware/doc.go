/*
The middleware package defines what a middleware is and a set of basic middlewares
guarding the HTTP surfaces of the enum module.

The available middlewares are:
  - CORS
  - ForceHTTPS
  - InjectIPAddress
  - LogRequest
  - RateLimit
  - ReportPanic
  - RequestID

A typical chain looks like:

	vs := middleware.NewVisitors(cfg.CatalogRate, cfg.CatalogBurst)
	adpts := []middleware.Adapter{
		middleware.ReportPanic(cfg.Env),
		middleware.ForceHTTPS(cfg.Env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.RateLimit(vs),
		middleware.LogRequest(log),
		middleware.CORS(cfg.CatalogOrigin),
	}
*/
package middleware
