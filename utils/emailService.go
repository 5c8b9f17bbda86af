package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"lms/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LMS Portal <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	// Debug Logs
	fmt.Printf("--- Sending Email ---\nTo: %v\nSubject: %s\nFrom: %s\n", to, subject, from)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	fmt.Println("--- Email Sent Successfully ---")
	return nil
}

// HTML Wrapper for a consistent portal look
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1E3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1E3A5F; line-height: 1.6; }
			.content h2 { color: #1E3A5F; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #2E7D32; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2E7D32; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LMS PORTAL</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LMS Portal. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to LMS Portal"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>LMS Portal</strong>! We are thrilled to have you onboard.</p>
		<p>Your account has been successfully created. You can now browse courses, join learning paths and subscribe to content updates.</p>
		<p>If you have any questions, feel free to reach out to our support team.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. New version published for subscribed content
func SendNewVersionEmail(email, name, title, message string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>A new version of content you follow is live.</p>
		<div class="info-box">%s</div>
		<p>Log in to review the changes.</p>
	`, name, message)

	go SendEmail([]string{email}, title, getEmailTemplate("Content Updated", body))
}

// 3. Content expiring soon reminder
func SendContentExpiringSoonEmail(email, name, title, message string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Content you follow is about to expire.</p>
		<div class="info-box">%s</div>
		<p>Download or review it before it goes away.</p>
	`, name, message)

	go SendEmail([]string{email}, title, getEmailTemplate("Expiring Soon", body))
}

// 4. Content expired notification
func SendContentExpiredEmail(email, name, title, message string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Content you follow or recently used has expired and is no longer available.</p>
		<div class="info-box">%s</div>
		<p>If a newer version exists you will find it in the portal.</p>
	`, name, message)

	go SendEmail([]string{email}, title, getEmailTemplate("Content Expired", body))
}
