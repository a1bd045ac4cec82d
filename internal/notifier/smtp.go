package notifier

import (
	"bytes" // Buffer for the attachment copy
	"io"    // Writer for the attachment copy

	"gopkg.in/gomail.v2" // SMTP mail library
)

// SMTPNotifier sends messages through a real SMTP server
type SMTPNotifier struct {
	host     string // SMTP server host
	port     int    // SMTP server port
	username string // SMTP username, also used as the sender address
	password string // SMTP password
}

// NewSMTPNotifier builds a notifier backed by an SMTP server
func NewSMTPNotifier(host string, port int, username, password string) *SMTPNotifier {
	return &SMTPNotifier{host: host, port: port, username: username, password: password}
}

// Send delivers the message with its attachment over SMTP
func (n *SMTPNotifier) Send(msg Message) error {
	m := gomail.NewMessage()                // New mail message
	m.SetHeader("From", n.username)         // Sender address
	m.SetHeader("To", msg.To)               // Recipient address
	m.SetHeader("Subject", msg.Subject)     // Message subject
	m.SetBody("text/plain", msg.Body)       // Plain-text body
	// Attach the artifact bytes under the uploaded filename
	if len(msg.Attachment) > 0 {
		m.Attach(msg.AttachmentName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.Copy(w, bytes.NewReader(msg.Attachment)) // Stream attachment bytes
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {msg.AttachmentMIME}}),
		)
	}
	d := gomail.NewDialer(n.host, n.port, n.username, n.password) // SMTP dialer
	return d.DialAndSend(m)                                       // Deliver the message
}
