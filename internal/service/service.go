// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data. Repository sentinels are translated into
// *errs.HTTPError here so handlers can return them untouched.
package service

import (
	"errors"
	"fmt"

	"github.com/deppfellow/askmate/internal/errs"
	"github.com/deppfellow/askmate/internal/lib/storage"
	"github.com/deppfellow/askmate/internal/repository"
)

// translate maps repository and storage errors onto HTTP errors. Anything
// else is returned as is and left to sqlerr in the global error handler.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return errs.NewNotFoundError(fmt.Sprintf("%s not found", what), true, nil)
	case errors.Is(err, repository.ErrConflict):
		return errs.NewBadRequestError(fmt.Sprintf("%s already exists", what), true, nil, nil, nil)
	case errors.Is(err, storage.ErrTooLarge):
		return errs.NewRequestTooLargeError("The uploaded image is too large")
	case errors.Is(err, storage.ErrNotImage):
		return errs.NewBadRequestError("The uploaded file is not an image", true, nil, nil, nil)
	}
	return err
}
