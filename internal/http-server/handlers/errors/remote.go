package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"sankhyacrm/internal/lib/api/response"
	apierrors "sankhyacrm/internal/lib/errors"
	"sankhyacrm/internal/lib/sl"
	"sankhyacrm/internal/services"

	"github.com/go-chi/render"
)

// RenderRemote maps gateway errors onto the HTTP surface and writes the
// {error} body. Session expiry surfaces as 401 so the UI prompts an
// explicit retry; the gateway never retried on its own.
func RenderRemote(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	apiErr := fromGateway(err)

	log.With(
		sl.Err(err),
		slog.String("error_code", string(apiErr.Code)),
	).Error("remote operation failed")

	w.WriteHeader(apiErr.HTTPStatus)
	render.JSON(w, r, response.FromAPIError(apiErr))
}

func fromGateway(err error) *apierrors.APIError {
	if errors.Is(err, services.ErrSessionExpired) {
		return apierrors.NewSessionExpiredError()
	}

	var authErr *services.AuthError
	if errors.As(err, &authErr) {
		return apierrors.NewAuthFailedError(authErr.Error())
	}

	var remoteErr *services.RemoteCallError
	if errors.As(err, &remoteErr) {
		return apierrors.NewRemoteCallError(remoteErr.Error())
	}

	var decodeErr *services.DecodeError
	if errors.As(err, &decodeErr) {
		return apierrors.NewInternalError(decodeErr.Error())
	}

	return apierrors.NewInternalError(err.Error())
}
