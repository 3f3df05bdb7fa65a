package mailer

import "github.com/diagnosis/taipei-trip/pkg/logger"

// DevMailer logs mail instead of sending it.
type DevMailer struct{}

func (DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("dev mailer: would send email",
		"to", toEmail,
		"subject", subject,
		"text", text,
	)
	return "dev", nil
}

func (d DevMailer) SendOrderReceipt(toEmail, toName, orderNumber string, price int) error {
	_, err := d.Send(toEmail, toName,
		receiptSubject(orderNumber),
		receiptText(toName, orderNumber, price),
		receiptHTML(toName, orderNumber, price),
	)
	return err
}

var _ Service = DevMailer{}
