// Package attach aggregates generated documents and user-uploaded files
// into one ordered attachment list for an email draft.
//
// Generated attachments come first in generation order, uploads follow in
// insertion order. Uploads are validated against a per-file size ceiling
// and a media-type allow-list; a violation excludes that one file and is
// reported back, it never aborts the rest of the bundle. Regeneration
// replaces the generated attachments wholesale without disturbing the
// position or identity of anything else.
package attach
