package mailing

import (
	"Trademate-Backend/internal/utils"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

type TradeMailKind int

const (
	TradeOfferReceived TradeMailKind = iota
	TradeOfferAccepted
)

// SendTradeMail notifies a participant about trade activity. Callers treat
// failures as non-fatal.
func SendTradeMail(toEmail, toName, otherName string, kind TradeMailKind) error {
	var subject, body string
	switch kind {
	case TradeOfferAccepted:
		subject = "Your trade offer was accepted"
		body = fmt.Sprintf("<p>Hi %s,</p><p><b>%s</b> accepted your trade offer. Open the app to arrange the swap.</p>", toName, otherName)
	default:
		subject = "You received a new trade offer"
		body = fmt.Sprintf("<p>Hi %s,</p><p><b>%s</b> sent you a trade offer. Open the app to review it.</p>", toName, otherName)
	}
	return SendMail(toEmail, subject, body)
}

func SendMail(toEmail string, subject string, body string) error {
	emailConfig := LoadMailConfig()

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", emailConfig.SMTPEmail)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	err = dialer.DialAndSend(mailer)
	if err != nil {
		return err
	}

	return nil
}
