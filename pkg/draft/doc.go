// Package draft orchestrates one correspondence compose session from
// generation to dispatch.
//
// A generation request runs the rule evaluator, resolves the letter
// templates for the requested language, assembles the documents, renders
// them through the document collaborator and bundles the attachments into
// an email draft. The draft then moves through the lifecycle
//
//	Idle -> Previewing <-> Editing -> Sending -> Sent | Failed
//
// with Cancelled reachable from Previewing and Editing. A failed send
// retains the draft so the user can retry without redoing edits; cancel
// and successful send discard all session state.
//
// Language switches regenerate asynchronously. Only the latest requested
// regeneration may land: results that arrive after the draft was closed
// or after a newer request are discarded silently, and a regeneration
// only ever replaces the generated attachments and body text it owns,
// never recipient or subject fields the user edited independently.
package draft
