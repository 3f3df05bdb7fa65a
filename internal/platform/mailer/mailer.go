package mailer

import "fmt"

type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendOrderReceipt(toEmail, toName, orderNumber string, price int) error
}

func receiptSubject(orderNumber string) string {
	return "Your Taipei day trip order " + orderNumber
}

func receiptText(toName, orderNumber string, price int) string {
	return fmt.Sprintf("Hi %s, your payment for order %s (TWD %d) was accepted. See you on the trip!", toName, orderNumber, price)
}

func receiptHTML(toName, orderNumber string, price int) string {
	return fmt.Sprintf(`<p>Hi %s,</p><p>Your payment for order <b>%s</b> (TWD %d) was accepted.</p><p>See you on the trip!</p>`, toName, orderNumber, price)
}
