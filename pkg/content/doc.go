// Package content defines the kind-tagged content block model used for
// letter and email bodies, and the bidirectional conversion between the
// formatted block representation and the plain-text editing representation.
//
// A Block is one paragraph carrying a semantic Kind (plain, positive,
// warning, danger, info). In plain form every non-plain kind is encoded as
// a distinct leading marker glyph followed by a single space:
//
//	+ Your application has been approved.
//	~ The filing deadline is approaching.
//	! The relief ceiling has been exceeded.
//	> Attached you will find the signed letter.
//
// The round trip ToFormatted(ToPlain(blocks)) preserves kind, order and
// text for every block whose text was not edited. Lines with no recognized
// marker decode to plain, never to an error, so arbitrary user edits stay
// safe to re-encode.
//
// The package also renders blocks to HTML for the outgoing email body and
// sanitizes edited input before re-encoding.
package content
