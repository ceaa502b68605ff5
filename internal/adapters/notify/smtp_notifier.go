package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/fakenews-detector/internal/core"
	"go.uber.org/zap"
)

const (
	dialTimeout    = 10 * time.Second
	sessionTimeout = 30 * time.Second
)

// SMTPNotifier mails a digest of suspicious headlines
type SMTPNotifier struct {
	address  string
	username string
	password string
	from     string
	to       []string
	subject  string
	logger   *zap.Logger
	now      func() time.Time
}

var _ core.Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier creates a new SMTP notifier
func NewSMTPNotifier(
	address string,
	username string,
	password string,
	from string,
	to []string,
	subject string,
	logger *zap.Logger,
) (*SMTPNotifier, error) {
	if len(to) == 0 {
		return nil, fmt.Errorf("smtp notifier: %w: no recipients configured", core.ErrConfiguration)
	}
	return &SMTPNotifier{
		address:  address,
		username: username,
		password: password,
		from:     from,
		to:       to,
		subject:  subject,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// NotifySuspicious sends one message listing every item
func (n *SMTPNotifier) NotifySuspicious(ctx context.Context, items []core.AnalyzedArticle) error {
	if len(items) == 0 {
		return nil
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", n.address)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	deadline := time.Now().Add(sessionTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if n.username != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("SMTP server does not support AUTH")
		}
		if err := c.Auth(sasl.NewPlainClient("", n.username, n.password)); err != nil {
			return fmt.Errorf("AUTH failed: %w", err)
		}
	}

	if err := c.Mail(n.from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range n.to {
		if err := c.Rcpt(recipient, nil); err != nil {
			n.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}
	if !recipientOK {
		return errors.New("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(n.buildMessage(items)); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		n.logger.Warn("QUIT command failed", zap.Error(err))
	}

	n.logger.Info("Sent suspicious headline digest",
		zap.Int("items", len(items)),
		zap.Strings("recipients", n.to))
	return nil
}

func (n *SMTPNotifier) buildMessage(items []core.AnalyzedArticle) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", n.from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(n.to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", n.subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", n.now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "%d headline(s) were classified as likely fake:\r\n\r\n", len(items))
	for _, item := range items {
		fmt.Fprintf(&buf, "- %s\r\n", item.Title)
		fmt.Fprintf(&buf, "  Confidence: %.2f%%\r\n", item.Confidence)
		if item.Source != "" {
			fmt.Fprintf(&buf, "  Source: %s\r\n", item.Source)
		}
		if item.URL != "" {
			fmt.Fprintf(&buf, "  URL: %s\r\n", item.URL)
		}
		if item.Review != nil {
			fmt.Fprintf(&buf, "  LLM review: %s (%.2f%%) %s\r\n",
				item.Review.Verdict, item.Review.Confidence, item.Review.Explanation)
		}
		buf.WriteString("\r\n")
	}

	return buf.Bytes()
}
