// Package report flattens workflow results into a presentation-neutral
// Report that the text and terminal renderers lay out. Structured formats
// encode the results themselves and do not go through here.
package report

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/indexpub/pkg/monitor"
	"github.com/arthur-debert/indexpub/pkg/prepare"
	"github.com/arthur-debert/indexpub/pkg/types"
)

// Outcome colours a report's title
type Outcome int

const (
	OutcomeInfo Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

// Field is one labelled line
type Field struct {
	Label string
	Value string
	// Link marks values that are URLs
	Link bool
}

// Report is a titled list of fields followed by an optional item list
type Report struct {
	Title      string
	Outcome    Outcome
	Fields     []Field
	ItemsTitle string
	Items      []string
	Warnings   []string
}

func (r *Report) add(label, value string) {
	if value != "" {
		r.Fields = append(r.Fields, Field{Label: label, Value: value})
	}
}

func (r *Report) link(label, url string) {
	if url != "" {
		r.Fields = append(r.Fields, Field{Label: label, Value: url, Link: true})
	}
}

// Build converts a known result into a Report
func Build(result interface{}) (Report, bool) {
	switch v := result.(type) {
	case *prepare.Result:
		return FromPrepare(v), true
	case *monitor.Result:
		return FromPublish(v), true
	case *monitor.StatusReport:
		return FromStatus(v), true
	case Report:
		return v, true
	case *Report:
		return *v, true
	}
	return Report{}, false
}

// FromPrepare describes a multi-release preparation
func FromPrepare(r *prepare.Result) Report {
	rep := Report{Title: "Prepared " + r.CommitMessage, Outcome: OutcomeSuccess}
	rep.add("Index", r.IndexDir)
	rep.add("Branch", r.Branch)
	rep.add("Commit", r.CommitMessage)
	switch {
	case r.Pushed:
		rep.add("Pushed to", r.Fork)
	default:
		rep.add("Pushed", "no, the commit is local")
	}
	rep.link("Pull request", r.PullRequestURL)

	rep.ItemsTitle = "Manifests"
	for _, p := range r.Placements {
		rep.Items = append(rep.Items, p.Path)
	}
	return rep
}

// FromPublish describes a single-release publication
func FromPublish(r *monitor.Result) Report {
	rep := Report{
		Title:    fmt.Sprintf("%s: %s", r.Package.Milestone().Display(), r.State),
		Outcome:  OutcomeFailure,
		Warnings: r.Warnings,
	}
	if r.State == types.StateDone {
		rep.Title = "Published " + r.Package.Milestone().Display()
		rep.Outcome = OutcomeSuccess
	}

	rep.add("State", r.State.String())
	if r.Review.URL != "" {
		rep.link("Review", r.Review.URL)
	} else if r.Review.ID != "" {
		rep.add("Review", "#"+r.Review.ID)
	}
	if r.Review.Status != "" {
		rep.add("Checks", string(r.Review.Status))
	}
	if r.Polls > 0 {
		rep.add("Polls", fmt.Sprintf("%d over %s", r.Polls, r.Elapsed))
	}
	rep.add("Tag", r.Tag)
	rep.add("Remote", r.Remote)
	rep.add("Log", r.Review.LogReference)

	if len(r.Transitions) > 0 {
		path := []string{r.Transitions[0].From.String()}
		for _, tr := range r.Transitions {
			path = append(path, tr.To.String())
		}
		rep.add("Path", strings.Join(path, " -> "))
	}
	return rep
}

// FromStatus describes a one-shot status query
func FromStatus(r *monitor.StatusReport) Report {
	rep := Report{Title: "Review requests for " + r.Package.Milestone().Display(), Outcome: OutcomeInfo}
	rep.add("Package", r.Package.SourcePath)
	rep.ItemsTitle = "Reviews"
	for _, line := range r.Reviews {
		rep.Items = append(rep.Items, fmt.Sprintf("#%s %s", line.ID, line.Status))
	}
	if len(r.Reviews) == 0 {
		rep.Items = append(rep.Items, "no review requests reported")
	}
	return rep
}
