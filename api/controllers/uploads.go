package controllers

import (
	"net/http"
	"time"

	"github.com/codetroon/bobbin-storefront/api/responses"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/imagekit"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
)

// UploadAuth hands the back office short-lived upload credentials. The
// response must never be cached: a replayed signature is a free upload slot.
func UploadAuth(signer *imagekit.Signer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
		w.Header().Set("Pragma", "no-cache")

		if signer == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "upload signing is not configured"))
			return
		}

		auth, err := signer.Sign(time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "signing upload credentials"))
			return
		}
		responses.WriteSuccess(w, auth)
	}
}
