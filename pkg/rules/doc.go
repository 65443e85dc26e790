// Package rules evaluates the business rules behind correspondence
// generation: corporate-tax filing due dates, relief thresholds, QFZP and
// SBR eligibility, and the mapping from a client's registration authority
// to the issuing-entity profile used on letterheads.
//
// Everything in this package is a pure function of its inputs. Evaluating
// the same facts twice always yields identical results, which is what
// makes language-switch regeneration reproduce the same computed values
// with only the localized text changing.
package rules
