package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/su413/storefront-golang/internal/models"
)

// EmailChannel mails the customer an invoice over SMTP. When no SMTP
// host is configured the mail is logged to the console instead, which
// keeps local development working without an account.
type EmailChannel struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

func NewEmailChannel(host string, port int, username, password, sender string) *EmailChannel {
	return &EmailChannel{Host: host, Port: port, Username: username, Password: password, Sender: sender}
}

func (e *EmailChannel) Name() string { return "email" }

// Send mails the invoice to the order's customer.
func (e *EmailChannel) Send(order *models.Order) error {
	subject := fmt.Sprintf("Invoice for order %s", order.OrderNumber)
	body := fmt.Sprintf("Thank you for your order!\n\n%s\n\n%s",
		customerLines(order), RenderInvoiceTable(order))

	return e.sendMail(order.CustomerEmail, subject, body)
}

func (e *EmailChannel) sendMail(to, subject, body string) error {
	if e.Host == "" {
		log.Println("====================================================")
		log.Printf("--- NEW EMAIL (PLACEHOLDER) ---")
		log.Printf("To: %s", to)
		log.Printf("Subject: %s", subject)
		log.Println("--- Body ---")
		log.Println(body)
		log.Println("====================================================")
		return nil
	}

	msg := strings.Join([]string{
		"From: " + e.Sender,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)
	auth := smtp.PlainAuth("", e.Username, e.Password, e.Host)
	if err := smtp.SendMail(addr, auth, e.Sender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}
