package utils

import (
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/hoaconnect/hoa-services-app/config"
)

func SendEmail(to, subject, body string) error {
	cfg := config.Get()
	port, _ := strconv.Atoi(cfg.SMTPPort)

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.EmailUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cfg.SMTPHost, port, cfg.EmailUser, cfg.EmailPass)

	return d.DialAndSend(m)
}
