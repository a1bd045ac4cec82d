package notifier

// Message is an outbound notification with a single binary attachment
type Message struct {
	Subject        string // Message subject
	To             string // Recipient address
	Body           string // Plain-text body
	AttachmentName string // Attachment filename
	AttachmentMIME string // Attachment MIME type
	Attachment     []byte // Attachment bytes
}

// Notifier relays a message to an external channel
type Notifier interface {
	Send(msg Message) error
}
