package notifier

import (
	"github.com/sirupsen/logrus" // Logging library
)

// ConsoleNotifier is a local stand-in transport that logs messages
// instead of delivering them. It is the default when SMTP is not configured.
type ConsoleNotifier struct{}

// NewConsoleNotifier builds the console stand-in transport
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

// Send logs the message instead of relaying it anywhere
func (n *ConsoleNotifier) Send(msg Message) error {
	logrus.WithFields(logrus.Fields{
		"to":              msg.To,                  // Recipient address
		"subject":         msg.Subject,             // Message subject
		"body":            msg.Body,                // Plain-text body
		"attachment":      msg.AttachmentName,      // Attachment filename
		"attachment_mime": msg.AttachmentMIME,      // Attachment MIME type
		"attachment_size": len(msg.Attachment),     // Attachment size in bytes
	}).Info("Console notification") // Log the would-be email
	return nil
}
