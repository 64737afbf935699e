// Package notify abstracts outbound workflow notifications. Delivery is
// best-effort: callers fire it off after their transaction commits and only
// log failures, they never roll back business state over a lost message.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Notifier delivers a single message to a recipient.
type Notifier interface {
	Deliver(ctx context.Context, recipient, subject, body string) error
}

// SMTPNotifier sends plain-text email through an SMTP relay.
type SMTPNotifier struct {
	addr     string
	auth     smtp.Auth
	from     string
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(host string, port int, user, password, from string) *SMTPNotifier {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPNotifier{
		addr:     fmt.Sprintf("%s:%d", host, port),
		auth:     auth,
		from:     from,
		sendMail: smtp.SendMail,
	}
}

func (n *SMTPNotifier) Deliver(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	msg.WriteString("From: " + n.from + "\r\n")
	msg.WriteString("To: " + recipient + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := n.sendMail(n.addr, n.auth, n.from, []string{recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", recipient, err)
	}
	return nil
}

// LogNotifier writes notifications to the application log. Used when no SMTP
// relay is configured (local development, CI).
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Deliver(ctx context.Context, recipient, subject, body string) error {
	n.logger.Info("Notification",
		zap.String("recipient", recipient),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// Message is one recorded delivery.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Recorder captures deliveries for assertions in tests.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	failWith error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes every subsequent Deliver return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

func (r *Recorder) Deliver(ctx context.Context, recipient, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.messages = append(r.messages, Message{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
