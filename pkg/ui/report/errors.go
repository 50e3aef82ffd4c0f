package report

import (
	"strings"

	"github.com/arthur-debert/indexpub/pkg/errors"
)

// ErrorReport is the user-facing view of a fatal error
type ErrorReport struct {
	Code    string                 `json:"code" yaml:"code"`
	Message string                 `json:"message" yaml:"message"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	// Review points at the review request to follow up on, if any
	Review string `json:"review,omitempty" yaml:"review,omitempty"`
	Log    string `json:"log,omitempty" yaml:"log,omitempty"`
}

// FromError describes err
func FromError(err error) ErrorReport {
	code := errors.GetErrorCode(err)
	rep := ErrorReport{
		Code:    string(code),
		Message: strings.TrimPrefix(err.Error(), "["+string(code)+"] "),
		Details: errors.GetErrorDetails(err),
	}
	if url, ok := rep.Details[errors.DetailReviewURL].(string); ok && url != "" {
		rep.Review = url
	} else if id, ok := rep.Details[errors.DetailReviewID].(string); ok && id != "" {
		rep.Review = "#" + id
	}
	if log, ok := rep.Details[errors.DetailLog].(string); ok {
		rep.Log = log
	}
	return rep
}

// Headline renders "[CODE] message"
func (e ErrorReport) Headline() string {
	return "[" + e.Code + "] " + e.Message
}
