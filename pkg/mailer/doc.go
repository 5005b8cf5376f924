// Package mailer turns a send request into a delivered email.
//
// The pipeline is strictly sequential:
//
//	render markdown -> fetch attachments in order -> assemble -> deliver
//
// Mailer.Send runs it. Any stage failure stops the pipeline and is returned
// as an *Error whose Kind tells the stages apart:
//
//	err := m.Send(ctx, params)
//	switch {
//	case errors.Is(err, mailer.ErrFetchFailed):
//	    // attachment could not be downloaded, nothing was sent
//	case errors.Is(err, mailer.ErrInvalidAddress):
//	    // sender or recipient did not parse
//	case errors.Is(err, mailer.ErrDeliveryFailed):
//	    // transport rejected the message
//	}
//
// The first failing attachment aborts the request; later attachments are not
// fetched and no partial message is ever delivered. Nothing is retried.
//
// # Messages
//
// Assemble builds a Message from resolved inputs. A Message always has the
// HTML body as its first part followed by one part per attachment in declared
// order, and serializes (WriteTo, Bytes) to a multipart/mixed MIME document
// with exactly 1+N parts. Declared attachment types that do not parse as media
// types fall back to application/octet-stream.
//
// # Transports
//
// Delivery goes through the Sender interface. Implementations live in the
// subpackages smtp, ses, resend and logsender. A Sender is built once at
// startup and shared by all requests, so implementations must be safe for
// concurrent use.
package mailer
