// Package validation checks end-user answers against question definitions.
// There is one entry point per question variant; repeaters recurse into their
// fields with the question's requirement policy.
package validation
