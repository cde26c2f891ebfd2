// Package migration plans admin edits to a profile type so that existing
// section question lists survive section renames and label changes.
//
// A plan is computed once as a three-way Diff; both the merged profile type and
// the Report are derived from that single structure.
package migration
