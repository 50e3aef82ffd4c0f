package types

// ReviewStatus is the classification of one status query
type ReviewStatus string

const (
	ReviewPending      ReviewStatus = "pending"
	ReviewChecksPassed ReviewStatus = "checks_passed"
	ReviewChecksFailed ReviewStatus = "checks_failed"
)

// ReviewRequest tracks the externally hosted review for one publication.
// It only lives for the duration of a run.
type ReviewRequest struct {
	ID     string       `json:"id" yaml:"id"`
	Status ReviewStatus `json:"status" yaml:"status"`
	// URL is the review request link found in the publish output, if any
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
	// LogReference points at the captured publish output
	LogReference string `json:"log_reference,omitempty" yaml:"log_reference,omitempty"`
}

// Reference returns the best pointer for manual follow-up
func (r ReviewRequest) Reference() string {
	if r.URL != "" {
		return r.URL
	}
	if r.ID != "" {
		return "#" + r.ID
	}
	return r.LogReference
}
