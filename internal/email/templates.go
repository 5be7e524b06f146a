package email

import "strings"

const confirmTemplate = `<html>
  <body>
    <h2>Welcome to Electronic Diary</h2>
    <p>Please confirm your e-mail address by clicking the link below:</p>
    <p><a href="{{confirmationLink}}">Confirm your e-mail</a></p>
    <p>If you did not register, you can ignore this message.</p>
  </body>
</html>`

const resetTemplate = `<html>
  <body>
    <h2>Password reset</h2>
    <p>A password reset was requested for your account. Follow the link below to continue:</p>
    <p><a href="{{confirmationLink}}">Reset your password</a></p>
    <p>If you did not request a reset, you can ignore this message.</p>
  </body>
</html>`

// ConfirmationBody renders the registration confirmation mail.
func ConfirmationBody(link string) string {
	return strings.ReplaceAll(confirmTemplate, "{{confirmationLink}}", link)
}

// PasswordResetBody renders the password reset mail.
func PasswordResetBody(link string) string {
	return strings.ReplaceAll(resetTemplate, "{{confirmationLink}}", link)
}
