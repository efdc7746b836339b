// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between browsers or JSON
// clients and the task store: each request translates into exactly one
// store call followed by a re-render or a JSON response.
package api
