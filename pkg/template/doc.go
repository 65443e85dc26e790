// Package template resolves named placeholders in letter and email
// templates. Placeholders use the {{name}} form; unknown placeholders are
// left untouched so partially-populated drafts stay legible, and resolving
// an already-resolved template is a no-op.
//
// A plural token form {{plural:count:singular|plural}} selects a word by a
// numeric context value, and formatting helpers produce the localized
// amount and letter-date forms used throughout generated correspondence.
package template
