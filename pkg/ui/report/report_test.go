package report_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/indexpub/pkg/monitor"
	"github.com/arthur-debert/indexpub/pkg/prepare"
	"github.com/arthur-debert/indexpub/pkg/reviewtext"
	"github.com/arthur-debert/indexpub/pkg/types"
	"github.com/arthur-debert/indexpub/pkg/ui/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func field(rep report.Report, label string) (report.Field, bool) {
	for _, f := range rep.Fields {
		if f.Label == label {
			return f, true
		}
	}
	return report.Field{}, false
}

func TestFromPrepare(t *testing.T) {
	rep := report.FromPrepare(&prepare.Result{
		IndexDir:       "/cache/index",
		Branch:         "publish-foo=1.0.0",
		CommitMessage:  "foo 1.0.0",
		Pushed:         true,
		Fork:           "octo/index",
		PullRequestURL: "https://github.com/crates/index/pull/7",
		Placements:     []types.IndexPlacement{{Path: "/cache/index/fo/foo/foo-1.0.0.toml"}},
	})

	assert.Equal(t, report.OutcomeSuccess, rep.Outcome)
	f, ok := field(rep, "Pull request")
	require.True(t, ok)
	assert.True(t, f.Link)
	f, ok = field(rep, "Pushed to")
	require.True(t, ok)
	assert.Equal(t, "octo/index", f.Value)
	assert.Equal(t, []string{"/cache/index/fo/foo/foo-1.0.0.toml"}, rep.Items)
}

func TestFromPublish(t *testing.T) {
	result := &monitor.Result{
		Package: types.PackageDescriptor{Name: "foo", Version: "1.0.0"},
		Review:  types.ReviewRequest{ID: "123", Status: types.ReviewChecksFailed},
		State:   types.StateChecksFailed,
		Transitions: []types.Transition{
			{From: types.StatePublishing, To: types.StateAwaitingReview},
			{From: types.StateAwaitingReview, To: types.StatePolling},
			{From: types.StatePolling, To: types.StateChecksFailed},
		},
		Polls:   2,
		Elapsed: time.Minute,
	}

	rep := report.FromPublish(result)
	assert.Equal(t, report.OutcomeFailure, rep.Outcome)
	assert.Equal(t, "foo 1.0.0: ChecksFailed", rep.Title)
	f, ok := field(rep, "Path")
	require.True(t, ok)
	assert.Equal(t, "Publishing -> AwaitingReview -> Polling -> ChecksFailed", f.Value)
	f, ok = field(rep, "Review")
	require.True(t, ok)
	assert.Equal(t, "#123", f.Value)
	_, ok = field(rep, "Tag")
	assert.False(t, ok, "empty values are omitted")

	result.State = types.StateDone
	assert.Equal(t, report.OutcomeSuccess, report.FromPublish(result).Outcome)
}

func TestFromStatus(t *testing.T) {
	rep := report.FromStatus(&monitor.StatusReport{
		Package: types.PackageDescriptor{Name: "foo", Version: "1.0.0"},
		Reviews: []reviewtext.StatusLine{{ID: "123", Status: types.ReviewChecksPassed}},
	})
	assert.Equal(t, []string{"#123 checks_passed"}, rep.Items)

	empty := report.FromStatus(&monitor.StatusReport{})
	assert.Len(t, empty.Items, 1)
}

func TestBuild(t *testing.T) {
	_, ok := report.Build(&prepare.Result{})
	assert.True(t, ok)
	_, ok = report.Build("something else")
	assert.False(t, ok)
}
