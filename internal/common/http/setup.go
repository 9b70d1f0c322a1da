package http

import (
	"net/http"

	"github.com/verygoodisland/backend/internal/common/constants"
	"github.com/verygoodisland/backend/internal/common/httpmetrics"
	"github.com/verygoodisland/backend/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler))))
}
