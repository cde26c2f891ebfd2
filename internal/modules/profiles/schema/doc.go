// Package schema defines the profile-type schema aggregate: profile types, their
// sections and the typed question definitions end users answer.
//
// Definitions are checked once, at save time (NormalizeQuestions); everything
// downstream (answer validation, progress, migration) assumes a checked schema.
package schema
