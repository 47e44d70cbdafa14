package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendInterviewSummary(toEmail, role, level string, averageScore float64, summary string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendInterviewSummary(toEmail, role, level string, averageScore float64, summary string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your Mock Interview Results: %s", role))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Mock Interview Complete</h2>
			<p>Role: <strong>%s</strong></p>
			<p>Average score: <strong>%.1f / 10</strong> (%s)</p>
			<hr/>
			<p>%s</p>
			<p>Keep practicing — consistency beats cramming.</p>
		</div>
	`, role, averageScore, level, summary)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send interview summary to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Interview summary sent to %s\n", toEmail)
	return nil
}
