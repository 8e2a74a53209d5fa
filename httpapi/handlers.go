package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	apierr "github.com/vortex-fintech/geophone/errors"
	"github.com/vortex-fintech/geophone/logutil"
	"github.com/vortex-fintech/geophone/metrics"
	"github.com/vortex-fintech/geophone/phone"
)

type providerResponse struct {
	Number   string `json:"number"`
	Provider string `json:"provider"`
}

type formatResponse struct {
	Style     phone.Style `json:"style"`
	Formatted *string     `json:"formatted"`
}

type isResponse struct {
	Number   string `json:"number"`
	Provider string `json:"provider"`
	Match    bool   `json:"match"`
}

type providersResponse struct {
	Providers phone.Table `json:"providers"`
}

type batchItem struct {
	Input  string        `json:"input"`
	Result *phone.Result `json:"result,omitempty"`
	Error  *batchError   `json:"error,omitempty"`
}

type batchError struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type batchResponse struct {
	Results []batchItem `json:"results"`
}

// numberParam returns the decoded {number} segment; chi yields the raw
// form when the path carried escapes such as %2B.
func numberParam(r *http.Request) string {
	raw := chi.URLParam(r, "number")
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	number := numberParam(r)

	res, err := s.resolver.Lookup(number)
	s.metrics.ObserveLookup(res.Provider, err)
	if err != nil {
		s.log.Debugw("lookup failed", "number", logutil.MaskNumber(number), "outcome", metrics.Outcome(err))
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleProvider(w http.ResponseWriter, r *http.Request) {
	number := numberParam(r)

	var provider string
	p, err := s.resolver.Parse(number)
	if err == nil {
		provider, err = s.resolver.Identify(p.Full)
	}
	s.metrics.ObserveLookup(provider, err)
	if err != nil {
		s.log.Debugw("identify failed", "number", logutil.MaskNumber(number), "outcome", metrics.Outcome(err))
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, providerResponse{Number: p.Full, Provider: provider})
}

// handleFormat answers 200 even for unparseable input; formatted is null then.
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	number := numberParam(r)
	style := phone.ParseStyle(r.URL.Query().Get("style"))

	resp := formatResponse{Style: style}
	out, ok := s.resolver.Format(number, style)
	s.metrics.ObserveFormat(style, ok)
	if ok {
		resp.Formatted = &out
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleIs answers match=false only for numbers another provider owns;
// unowned numbers are a 404 like /provider.
func (s *Server) handleIs(w http.ResponseWriter, r *http.Request) {
	req := isRequest{
		Number:   numberParam(r),
		Provider: chi.URLParam(r, "provider"),
	}
	if !validateRequest(w, req) {
		return
	}

	var match bool
	p, err := s.resolver.Parse(req.Number)
	if err == nil {
		match, err = s.resolver.Is(p.Full, req.Provider)
	}
	if err != nil {
		s.log.Debugw("provider check failed", "number", logutil.MaskNumber(req.Number), "outcome", metrics.Outcome(err))
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, isResponse{Number: p.Full, Provider: req.Provider, Match: match})
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, providersResponse{Providers: s.resolver.Table()})
}

func (s *Server) handleBatchLookup(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		msg := "Request body must be a JSON object with a numbers array"
		if errors.Is(err, io.EOF) {
			msg = "Request body is empty"
		}
		apierr.InvalidArgument().WithReason("malformed_body").WithMessage(msg).ToHTTP(w)
		return
	}
	if !validateRequest(w, req) {
		return
	}

	out := batchResponse{Results: make([]batchItem, 0, len(req.Numbers))}
	for _, n := range req.Numbers {
		item := batchItem{Input: n}
		res, err := s.resolver.Lookup(n)
		s.metrics.ObserveLookup(res.Provider, err)
		if err != nil {
			e := apierr.FromPhone(err)
			item.Error = &batchError{Code: e.Code.String(), Reason: string(e.Reason)}
		} else {
			item.Result = &res
		}
		out.Results = append(out.Results, item)
	}

	s.log.InfowCtx(r.Context(), "batch lookup", "count", len(req.Numbers))
	writeJSON(w, http.StatusOK, out)
}
