// Package country exposes the country registry over HTTP.
//
// Routes (relative to the API base path):
//
//	GET    /countries/list?limit=&offset=   page of countries with currency
//	POST   /countries                       create, 201 on success
//	GET    /countries/:id                   single country
//	PATCH  /countries/:id                   partial update
//	DELETE /countries/:id                   delete
//	POST   /countries/sync?dryRun=          run a synchronization now
//
// Successful responses use {"message", "data"}. Errors use
// {"error", "status", "errors"} where errors lists failed fields.
package country
