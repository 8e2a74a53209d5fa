package httpapi

import (
	"encoding/json"
	"net/http"

	apierr "github.com/vortex-fintech/geophone/errors"
	"github.com/vortex-fintech/geophone/logger"
	"github.com/vortex-fintech/geophone/validator"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err with the request id attached so clients can quote it.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := apierr.FromPhone(err)
	if id := logger.RequestID(r.Context()); id != "" {
		resp = resp.WithDetail("request_id", id)
	}
	resp.ToHTTP(w)
}

// validateRequest writes a 400 with field violations and returns false when
// v fails its validate tags.
func validateRequest(w http.ResponseWriter, v any) bool {
	errs := validator.Errors(v)
	if len(errs) == 0 {
		return true
	}
	apierr.FromPlayground(errs, validator.TagReasons()).ToHTTP(w)
	return false
}
