// Package mail defines the outgoing email model and the send collaborator
// boundary. The engine prepares a fully-resolved Email; delivery itself is
// behind the Sender interface, with a Resend-backed implementation in the
// resend subpackage and fakes in tests.
package mail
