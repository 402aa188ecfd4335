package utils

import (
	"context"
	"fmt"
	"log"

	"learnsphere/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const senderName = "LearnSphere"

// sendgridHost is swapped for a local server in tests.
var sendgridHost = "https://api.sendgrid.com"

// SendEmail delivers one HTML message through SendGrid. With no API key
// configured the message is logged and dropped.
func SendEmail(ctx context.Context, toName, toEmail, subject, htmlBody string) error {
	return sendEmail(ctx, config.AppConfig, toName, toEmail, subject, htmlBody)
}

func sendEmail(ctx context.Context, cfg *config.Config, toName, toEmail, subject, htmlBody string) error {
	apiKey := cfg.SendgridAPIKey
	if apiKey == "" {
		log.Printf("[EMAIL] SendGrid disabled, skipping %q to %s", subject, toEmail)
		return nil
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(senderName, cfg.EmailSender))
	message.Subject = subject
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(toName, toEmail))
	message.AddPersonalizations(p)
	message.AddContent(mail.NewContent("text/html", htmlBody))

	client := sendgrid.NewSendClient(apiKey)
	client.BaseURL = sendgridHost + "/v3/mail/send"

	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		log.Printf("[EMAIL] Error sending %q to %s: %v", subject, toEmail, err)
		return err
	}
	if resp.StatusCode >= 300 {
		log.Printf("[EMAIL] SendGrid rejected %q to %s: %d %s", subject, toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	log.Printf("[EMAIL] Sent %q to %s", subject, toEmail)
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F4F7F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B4D3E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B4D3E; line-height: 1.6; }
			.content h2 { color: #1B4D3E; margin-top: 0; }
			.footer { background-color: #F4F7F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F5E9; padding: 15px; border-radius: 4px; border-left: 4px solid #4CAF50; margin: 20px 0; text-align: center; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNSPHERE</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LearnSphere. Keep learning.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendWelcomeEmail greets a new learner. It does not block the caller.
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to LearnSphere"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>LearnSphere</strong>! Your account is ready.</p>
		<p>Enroll in a course, pass its quizzes and climb the badge ladder from Newbie to Master.</p>
	`, name)

	go sendEmail(context.Background(), config.AppConfig, name, email, subject, getEmailTemplate("Welcome Onboard!", body))
}

// SendEnrollmentEmail confirms an enrollment. It does not block the caller.
func SendEnrollmentEmail(email, userName, courseName string) {
	subject := "Course Enrollment Confirmation"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>Complete every lesson to earn your certificate and a completion bonus.</p>
	`, userName, courseName)

	go sendEmail(context.Background(), config.AppConfig, userName, email, subject, getEmailTemplate("Enrollment Successful", body))
}

// SendCertificateEmail tells a learner their certificate was issued.
func SendCertificateEmail(ctx context.Context, email, userName, courseName, certificateNumber string, points int) error {
	subject := "Course Completion Certificate - " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing the course <strong>%s</strong>.</p>
		<div class="info-box">
			<p style="margin: 0 0 10px 0;">Your Certificate Number:</p>
			<h2 style="margin: 0;">%s</h2>
		</div>
		<p>You earned <strong>%d</strong> bonus points. Use the certificate number for verification purposes.</p>
	`, userName, courseName, certificateNumber, points)

	return SendEmail(ctx, userName, email, subject, getEmailTemplate("Certificate of Completion", body))
}
