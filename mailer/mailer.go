// Package mailer delivers receipts over SMTP with the PDF attached.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"stayvia/config"
	"stayvia/receipts"
	"stayvia/utils"
)

// Sender implements receipts.Sender over SMTP.
type Sender struct {
	client *mail.Client
	from   string
	now    func() time.Time
}

func New(cfg config.SMTP, loc *time.Location) (*Sender, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}
	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Sender{
		client: c,
		from:   cfg.From,
		now:    func() time.Time { return time.Now().In(loc) },
	}, nil
}

func (s *Sender) Send(ctx context.Context, r receipts.Receipt, to string) error {
	doc, err := receipts.PDF(r, s.now())
	if err != nil {
		return err
	}
	msg, err := Message(s.from, r, to, doc)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send receipt %s: %w", r.Booking.ID, err)
	}
	utils.Log(ctx).WithField("booking", r.Booking.ID).Info("receipt emailed")
	return nil
}

// Message builds the receipt email.
func Message(from string, r receipts.Receipt, to string, pdf []byte) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("receipt from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("receipt to address: %w", err)
	}
	msg.Subject("Your booking receipt " + r.Booking.ID)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hi %s,\n\nThanks for your booking.\n\n%s\n\nVerify it any time at %s\n",
		r.PayerName, receipts.ShareText(r), r.VerifyURL,
	))
	if len(pdf) > 0 {
		name := "Receipt_" + r.Booking.TransactionID + ".pdf"
		if err := msg.AttachReader(name, bytes.NewReader(pdf)); err != nil {
			return nil, fmt.Errorf("attach receipt: %w", err)
		}
	}
	return msg, nil
}
