package monitor

import (
	"context"

	"github.com/arthur-debert/indexpub/pkg/manager"
	"github.com/arthur-debert/indexpub/pkg/reviewtext"
	"github.com/arthur-debert/indexpub/pkg/types"
)

// StatusReport is a one-shot view of every review request the package
// manager knows for a package
type StatusReport struct {
	Package types.PackageDescriptor `json:"package" yaml:"package"`
	Reviews []reviewtext.StatusLine  `json:"reviews" yaml:"reviews"`
}

// QueryStatus runs a single status query for d. It never finalizes anything.
func QueryStatus(ctx context.Context, m *manager.Client, d types.PackageDescriptor) (*StatusReport, error) {
	out, err := m.Status(ctx, d.SourcePath)
	if err != nil {
		return nil, err
	}
	return &StatusReport{Package: d, Reviews: reviewtext.ParseStatusLines(out)}, nil
}
