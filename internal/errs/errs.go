// Package errs define custom error types and utilities.
//
// HTTPError carries the status, a stable machine code and the message shown
// on the error page. Field errors come from request validation, and an
// optional Action tells the error handler to redirect instead of rendering.
package errs
