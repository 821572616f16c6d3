// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains background job processing (Redis/Asynq), the Resend email
// client, uploaded image storage and Prometheus metrics.
package lib
