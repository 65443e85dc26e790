// Package assemble turns a declarative list of candidate sections into the
// final ordered, numbered document fed to the render collaborator.
//
// Candidates pair an inclusion predicate with a block factory. The
// assembler evaluates every predicate once, numbers the surviving blocks
// strictly from the filtered list, and applies the page-split policy so a
// numbered item's body never straddles a page boundary. Mutually exclusive
// recipient options are always listed in full; ineligible ones are marked
// non-selectable instead of being removed.
//
// Missing required facts never abort assembly: a documented placeholder
// value is substituted and the document is flagged provisional, which
// keeps preview generation possible during data entry while blocking the
// final send.
package assemble
