package controllers

import (
	"net/http"

	"github.com/storebilling/storebilling-backend/api/responses"
	"github.com/storebilling/storebilling-backend/api/validators"
	"github.com/storebilling/storebilling-backend/internal/dashboard"
	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
	"github.com/storebilling/storebilling-backend/pkg/logger"
)

// Dashboard serves revenue totals for ?start=&end= or ?preset=.
func Dashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		summary, err := svc.Summary(r.Context(), dashboard.Query{
			Start:  validators.QueryString(r, "start"),
			End:    validators.QueryString(r, "end"),
			Preset: validators.QueryString(r, "preset"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
