package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/sleuthgame-go/internal/api/apierr"
	"github.com/mcoot/sleuthgame-go/internal/middleware"
)

// Recovery creates panic recovery middleware that answers with a JSON 500
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
