package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"
)

const defaultSMTPTimeout = 30 * time.Second

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// Timeout bounds the whole SMTP conversation, dial included.
	Timeout time.Duration
}

// MailSender delivers a single HTML message.
type MailSender interface {
	SendHTMLEmail(to, subject, htmlBody string) error
}

type Mailer struct {
	config Config
}

func NewMailer(cfg Config) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSMTPTimeout
	}
	return &Mailer{
		config: cfg,
	}
}

func (m *Mailer) Configured() bool {
	return m.config.Host != "" && m.config.From != ""
}

var headerSanitizer = strings.NewReplacer("\r", "", "\n", "")

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	if !m.Configured() {
		return fmt.Errorf("smtp is not configured")
	}

	headers := [][2]string{
		{"From", m.config.From},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=\"UTF-8\""},
	}

	var msg bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", h[0], headerSanitizer.Replace(h[1]))
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := m.send(auth, to, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}

// send follows smtp.SendMail but keeps a deadline on the connection, so a silent server
// cannot hold the caller.
func (m *Mailer) send(auth smtp.Auth, to string, msg []byte) error {
	addr := net.JoinHostPort(m.config.Host, m.config.Port)
	dialer := net.Dialer{Timeout: m.config.Timeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return err
	}
	if err := conn.SetDeadline(time.Now().Add(m.config.Timeout)); err != nil {
		conn.Close()
		return err
	}

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.config.Host}); err != nil {
			return err
		}
	}
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	if err := client.Mail(m.config.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

const WelcomeSubject = "Welcome to E-AGRI!"

const (
	farmerWelcomeLine = "Start exploring market prices, weather updates, and AI-powered recommendations!"
	dealerWelcomeLine = "Your dealer account is pending verification. We will notify you once approved."
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Welcome to E-AGRI</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
        .header { background-color: #2e7d32; color: #fff; padding: 10px 0; text-align: center; }
        .footer { font-size: 0.8em; color: #777; text-align: center; margin-top: 20px; border-top: 1px solid #ddd; padding-top: 10px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h2>Welcome to E-AGRI</h2></div>
        <p>Dear {{.Name}},</p>
        <p>Thank you for registering with E-AGRI as a <strong>{{.Role}}</strong>.</p>
        <p>{{.Line}}</p>
        {{if .AppURL}}<p><a href="{{.AppURL}}">Open E-AGRI</a></p>{{end}}
        <div class="footer"><p>Best regards,<br>E-AGRI Team</p></div>
    </div>
</body>
</html>
`))

// BuildWelcomeEmailBody renders the role-specific welcome message. Name is HTML-escaped.
func BuildWelcomeEmailBody(name, role, appURL string) (string, error) {
	line := farmerWelcomeLine
	if role == "dealer" {
		line = dealerWelcomeLine
	}

	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, struct {
		Name, Role, Line, AppURL string
	}{name, role, line, appURL})
	if err != nil {
		return "", fmt.Errorf("failed to render welcome email: %w", err)
	}
	return buf.String(), nil
}
