package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"sermonforge_backend/internal/config"
	"sermonforge_backend/internal/logger"
)

// Sender delivers transactional email over SMTP. When email is disabled in
// config every send becomes a log line, which keeps development quiet.
type Sender struct {
	cfg *config.Config
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{cfg: cfg}
}

func (s *Sender) send(to, subject, htmlBody string) error {
	if !s.cfg.Email.Enabled {
		logger.Info("Email sending disabled, skipping", "to", to, "subject", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Email.FromEmail, s.cfg.Email.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		s.cfg.Email.SMTPHost,
		s.cfg.Email.SMTPPort,
		s.cfg.Email.SMTPUsername,
		s.cfg.Email.SMTPPassword,
	)
	return d.DialAndSend(m)
}

// SendSermonReady notifies the user that processing finished.
func (s *Sender) SendSermonReady(to, sermonTitle string) error {
	body := fmt.Sprintf(`<p>Good news! Your sermon <strong>%s</strong> has finished processing.</p>
<p>Sermon notes, devotionals and all other content are ready to view and export.</p>`, sermonTitle)
	return s.send(to, "Your sermon content is ready", body)
}

// SendSermonFailed notifies the user that processing failed.
func (s *Sender) SendSermonFailed(to, sermonTitle, reason string) error {
	body := fmt.Sprintf(`<p>We ran into a problem processing your sermon <strong>%s</strong>.</p>
<p>%s</p>
<p>You can retry processing from your dashboard.</p>`, sermonTitle, reason)
	return s.send(to, "Sermon processing failed", body)
}

// SendUsageWarning notifies the user they are close to their monthly limit.
func (s *Sender) SendUsageWarning(to string, used, limit int) error {
	body := fmt.Sprintf(`<p>You've used %d of %d sermons in your current billing period.</p>
<p>Upgrade your plan any time to keep processing without interruption.</p>`, used, limit)
	return s.send(to, "You're approaching your sermon limit", body)
}
