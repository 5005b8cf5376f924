// Package handlers exposes the relay's HTTP surface.
//
// Welcome serves the landing page on GET / and Email accepts JSON send
// requests on POST /send_email:
//
//	{
//	  "recipient_email": "bob@example.com",
//	  "recipient_name": "Bob",
//	  "sender_email": "alice@example.com",
//	  "sender_name": "Alice",
//	  "subject": "Hello",
//	  "body": "# Hi\n\nSee attached.",
//	  "attachments": [{"url": "https://example.com/a.pdf", "filename": "a.pdf", "mime_type": "application/pdf"}]
//	}
//
// Every outcome is reported as {"status": ..., "error": ...}. Unless
// WithStrictStatus is set, failures still answer 200 so that existing
// clients that only inspect the status text keep working.
package handlers
