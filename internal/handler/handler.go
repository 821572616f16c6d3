// Package handler is the first layer after the router.
//
// Each handler binds path, query and form values into a request struct,
// validates it through the validation package, calls the service layer
// and either renders a page or redirects with 303 See Other.
package handler
