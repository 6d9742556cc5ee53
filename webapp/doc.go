// Package webapp bootstraps an embedded web application inside a host
// process: it configures a bind address, wires the application into an
// injection scope, starts the HTTP listener, and in dev mode asks a
// previously running instance on the same port to stop first.
//
// Typical usage:
//
//	app, err := webapp.ForAPI("orders", "orders.API", myApp).
//		At("0.0.0.0:8080").
//		InDevMode().
//		Start(ctx)
//	if err != nil {
//		return err
//	}
//	defer app.Stop(ctx)
package webapp
