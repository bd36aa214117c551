package mailer

import (
	"fmt"
	"time"
)

// EmailNotifier sends the transactional emails of the authentication flow.
// It satisfies the usecase Notifier contracts.
type EmailNotifier struct {
	mailer *Mailer
}

// NewEmailNotifier creates a new EmailNotifier backed by the given Mailer.
func NewEmailNotifier(mailer *Mailer) *EmailNotifier {
	return &EmailNotifier{mailer: mailer}
}

// SendVerification sends the email verification code to a new user.
func (n *EmailNotifier) SendVerification(email, code string, expiresIn time.Duration) error {
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>Thanks for signing up! Please confirm your email address by entering the code below:</p>

		<p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">%s</p>

		<p>The code expires in %s.</p>
		<p>If you did not create an account, you can safely ignore this email.</p>
	`, code, expiresIn)

	return n.mailer.SendHTML([]string{email}, "Verify your email", htmlBody)
}

// SendWelcome sends the welcome email after a successful verification.
func (n *EmailNotifier) SendWelcome(email, name string) error {
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your email address has been verified and your account is ready to use.</p>
		<p>Welcome aboard!</p>
	`, name)

	return n.mailer.SendHTML([]string{email}, "Welcome!", htmlBody)
}

// SendResetLink sends the password reset link.
func (n *EmailNotifier) SendResetLink(email, resetURL string, expiresIn time.Duration) error {
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s for your security.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>
	`, resetURL, resetURL, expiresIn)

	return n.mailer.SendHTML([]string{email}, "Reset your password", htmlBody)
}

// SendResetConfirmation confirms that the password has been changed.
func (n *EmailNotifier) SendResetConfirmation(email string) error {
	htmlBody := `
		<p>Hi,</p>
		<p>Your password has been changed successfully.</p>
		<p>If you did not perform this change, please contact support immediately.</p>
	`

	return n.mailer.SendHTML([]string{email}, "Password Reset Successful", htmlBody)
}
