package workflow

import (
	"errors"

	addressrepo "ipam-control-plane/internal/address/repository"
	requestdomain "ipam-control-plane/internal/iprequest/domain"
	requestrepo "ipam-control-plane/internal/iprequest/repository"
	"ipam-control-plane/internal/platform/apperr"
)

// Error is the typed business error returned by every workflow operation.
type Error = apperr.Error

// Kind sentinels for errors.Is.
var (
	ErrNotFound         = apperr.ErrNotFound
	ErrConflict         = apperr.ErrConflict
	ErrBadRequest       = apperr.ErrBadRequest
	ErrUnauthorized     = apperr.ErrUnauthorized
	ErrAlreadyProcessed = apperr.ErrAlreadyProcessed
)

// classify turns storage-level race signals into business errors. Other errors pass through.
func classify(err error, req *requestdomain.Request) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, requestrepo.ErrStaleRequest), errors.Is(err, requestdomain.ErrNotPending):
		if req != nil {
			return apperr.AlreadyProcessed(req.ID, string(req.Status))
		}
		return apperr.ErrAlreadyProcessed
	case errors.Is(err, addressrepo.ErrStaleAddress):
		return apperr.Conflict("address changed while the request was being processed")
	}
	return err
}
