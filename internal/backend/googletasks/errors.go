package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"gtasksync/internal/service"
)

// classify maps API errors to service error kinds.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return service.Wrap(service.KindAuth, op, fmt.Errorf("token expired or revoked (run: gtasksync login): %w", err))
		case http.StatusPreconditionFailed:
			return service.Wrap(service.KindPrecondition, op, err)
		default:
			return service.Wrap(service.KindTransport, op, err)
		}
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return service.Wrap(service.KindAuth, op, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return service.Wrap(service.KindTransport, op, fmt.Errorf("request timed out: %w", err))
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return service.Wrap(service.KindTransport, op, err)
	}

	return service.Wrap(service.KindUnexpected, op, err)
}

// classifyDelete is classify for delete calls. A missing entity is already
// deleted, and a bad request means the entity may not be deleted (the
// default list), which is a precondition failure.
func classifyDelete(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound, http.StatusGone:
			return nil
		case http.StatusBadRequest:
			return service.Wrap(service.KindPrecondition, op, err)
		}
	}
	return classify(op, err)
}
