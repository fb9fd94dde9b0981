package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"lms/config"
)

// SendEmail sends an HTML email through the configured SMTP account
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LMS <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// getEmailTemplate wraps body content in the shared HTML layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Arial, sans-serif; background-color: #f4f4f7; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 20px auto; background: #ffffff; border-radius: 8px; overflow: hidden; }
			.header { background: #2d3a8c; color: #ffffff; padding: 24px; text-align: center; }
			.content { padding: 24px; color: #333333; line-height: 1.6; }
			.footer { padding: 16px; text-align: center; color: #999999; font-size: 12px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h2>%s</h2></div>
			<div class="content">%s</div>
			<div class="footer">This is an automated message. Please do not reply.</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendEnrollmentEmail notifies a student of a successful enrollment
func SendEnrollmentEmail(email, userName, courseName string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You have been enrolled in <b>%s</b>. Head to your dashboard to start learning.</p>`,
		userName, courseName)
	go SendEmail([]string{email}, "Enrollment Confirmed", getEmailTemplate("Enrollment Confirmed", body))
}

// SendGradedEmail notifies a student that a submission was graded
func SendGradedEmail(email, userName, assignmentTitle string, grade float64) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your submission for <b>%s</b> has been graded: <b>%.1f</b>.</p>`,
		userName, assignmentTitle, grade)
	go SendEmail([]string{email}, "Submission Graded", getEmailTemplate("Submission Graded", body))
}

// SendCertificateEmail notifies a student that a certificate was issued
func SendCertificateEmail(email, userName, courseName, certificateNumber string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations on completing <b>%s</b>!</p>
		<p>Your certificate number is <b>%s</b>. You can download it from your dashboard.</p>`,
		userName, courseName, certificateNumber)
	go SendEmail([]string{email}, "Certificate Issued", getEmailTemplate("Certificate Issued", body))
}

// SendAssignmentReminderEmail reminds a student of an assignment due tomorrow
func SendAssignmentReminderEmail(email, userName, assignmentTitle, courseName string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Reminder: <b>%s</b> in <b>%s</b> is due tomorrow.</p>`,
		userName, assignmentTitle, courseName)
	go SendEmail([]string{email}, "Assignment Due Tomorrow", getEmailTemplate("Assignment Due Tomorrow", body))
}
