// Package types defines the data model shared by the prepare and publish
// workflows: package descriptors, milestones, manifests, index placements
// and review requests, plus the publish state machine's states.
package types
