package report_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/ui/report"
	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	err := errors.New(errors.ErrChecksFailed, "checks failed for #123").
		WithDetail(errors.DetailReviewURL, "https://github.com/crates/index/pull/123").
		WithDetail(errors.DetailLog, "/logs/publish.log")

	rep := report.FromError(err)
	assert.Equal(t, "CHECKS_FAILED", rep.Code)
	assert.Equal(t, "[CHECKS_FAILED] checks failed for #123", rep.Headline())
	assert.Equal(t, "https://github.com/crates/index/pull/123", rep.Review)
	assert.Equal(t, "/logs/publish.log", rep.Log)
}

func TestFromError_ReviewIDOnly(t *testing.T) {
	err := errors.New(errors.ErrTimedOut, "timed out").WithDetail(errors.DetailReviewID, "9")
	assert.Equal(t, "#9", report.FromError(err).Review)
}

func TestFromError_Uncoded(t *testing.T) {
	rep := report.FromError(stderrors.New("boom"))
	assert.Equal(t, "[UNKNOWN] boom", rep.Headline())
	assert.Empty(t, rep.Review)
}
