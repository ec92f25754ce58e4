package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"wealthee/internal/config"
)

// Sender 密码重置邮件发送器
// 发送失败只记日志不影响主流程，调用方负责 fire-and-forget
type Sender struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host),
		from: cfg.From,
	}
}

// SendPasswordReset 发送密码重置链接，30分钟有效
func (s *Sender) SendPasswordReset(toEmail, resetURL, userName string) error {
	if userName == "" {
		userName = "User"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: Wealthee Support <%s>\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", toEmail)
	b.WriteString("Subject: Wealthee Password Reset Request\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&b, "<p>Hi %s,</p>", userName)
	b.WriteString("<p>We received a request to reset your password.</p>")
	b.WriteString("<p>Click the link below to reset your password. This link will expire in 30 minutes.</p>")
	fmt.Fprintf(&b, `<p><a href="%s">%s</a></p>`, resetURL, resetURL)
	b.WriteString("<p>If you did not request this, please ignore this email.</p>")
	b.WriteString("<br/><p>Thank you,<br/>Wealthee Team</p>")

	return smtp.SendMail(s.addr, s.auth, s.from, []string{toEmail}, []byte(b.String()))
}
