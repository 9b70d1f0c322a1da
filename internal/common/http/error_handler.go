package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/verygoodisland/backend/internal/common/errors"
	"github.com/verygoodisland/backend/internal/common/logger"
	"github.com/verygoodisland/backend/internal/observability/metrics"
)

// HandleError translates a service failure into a JSON error envelope.
// Domain errors keep their code and status; anything else is an opaque 500,
// internal detail never crosses the boundary.
func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	if err == nil {
		return
	}

	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		status := domainErr.HTTPStatus()

		if log.ShouldLog(logger.DEBUG) {
			log.WithFields(ctx, logger.Fields{
				"error_code": domainErr.Code(),
				"category":   string(domainErr.Category()),
				"status":     status,
				"action":     "domain_error",
			}).Debugf("domain error: %s", domainErr.Error())
		}

		metrics.DomainErrorsTotal.WithLabelValues(
			string(domainErr.Category()),
			domainErr.Code(),
			strconv.Itoa(status),
		).Inc()
		metrics.HTTPErrorsTotal.WithLabelValues(
			strconv.Itoa(status), r.URL.Path, r.Method,
		).Inc()

		WriteErrorEnvelope(w, status, domainErr.Code(), domainErr.Message(), traceID)
		return
	}

	log.WithFields(ctx, logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError), r.URL.Path, r.Method,
	).Inc()

	WriteErrorEnvelope(w, http.StatusInternalServerError, CodeUnknown, "internal server error", traceID)
}
