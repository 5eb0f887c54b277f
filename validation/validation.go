package validation

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cliphunter/cliphunter/errors"
	"github.com/cliphunter/cliphunter/models"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateURL performs basic URL validation before anything touches
// the external resolver.
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	if urlStr == "" {
		return errors.InvalidInput(op, nil, "URL is required")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return errors.InvalidInput(op, err, "Invalid URL format")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.InvalidInput(op, nil, "URL must use HTTP or HTTPS")
	}

	return nil
}

// ValidateClipRequest checks the metadata-only clip creation body.
func (v *Validator) ValidateClipRequest(req *models.ClipRequest) error {
	const op = "Validator.ValidateClipRequest"

	if err := v.ValidateURL(req.URL); err != nil {
		return err
	}
	if req.Start < 0 {
		return errors.InvalidInput(op, nil, "start must be >= 0")
	}
	if req.End != nil && *req.End <= req.Start {
		return errors.InvalidInput(op, nil, "end must be greater than start")
	}
	return nil
}

// ValidateCutRequest checks the cut-and-store body. Rejection happens
// before any download is attempted, so a bad range has no side effects.
func (v *Validator) ValidateCutRequest(req *models.CutRequest) error {
	const op = "Validator.ValidateCutRequest"

	if err := v.ValidateURL(req.VideoURL); err != nil {
		return err
	}
	if req.StartTime < 0 {
		return errors.InvalidInput(op, nil, "start_time must be >= 0")
	}
	if req.EndTime <= req.StartTime {
		return errors.InvalidInput(op, nil, "end_time must be greater than start_time")
	}
	return nil
}

// RequestValidationOpts holds options for request validation
type RequestValidationOpts struct {
	MaxContentLength int64
	AllowedMethods   []string
	RequireJSON      bool
}

// ValidateRequest validates HTTP requests
func (v *Validator) ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "Validator.ValidateRequest"

	if len(opts.AllowedMethods) > 0 {
		methodAllowed := false
		for _, method := range opts.AllowedMethods {
			if r.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			return errors.InvalidInput(op, nil, fmt.Sprintf("Method %s not allowed", r.Method))
		}
	}

	if opts.RequireJSON {
		if contentType := r.Header.Get("Content-Type"); !strings.Contains(contentType, "application/json") {
			return errors.InvalidInput(op, nil, "Content-Type must be application/json")
		}
	}

	if opts.MaxContentLength > 0 && r.ContentLength > opts.MaxContentLength {
		return errors.InvalidInput(op, nil, "Request body too large")
	}

	return nil
}
