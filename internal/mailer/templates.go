package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// WelcomeEmailData holds data for the account welcome email.
type WelcomeEmailData struct {
	SiteName     string
	Username     string
	Email        string
	TempPassword string
	LoginURL     string
}

// BuildWelcomeEmail creates the welcome email carrying the temporary password.
func BuildWelcomeEmail(data WelcomeEmailData) Email {
	return Email{
		To:       data.Email,
		Subject:  fmt.Sprintf("Welcome to %s", data.SiteName),
		TextBody: buildWelcomeText(data),
		HTMLBody: buildWelcomeHTML(data),
	}
}

func buildWelcomeText(data WelcomeEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hello %s,\n\n", data.Username))
	buf.WriteString(fmt.Sprintf("An account has been created for you on %s.\n\n", data.SiteName))
	buf.WriteString(fmt.Sprintf("Email: %s\n", data.Email))
	buf.WriteString(fmt.Sprintf("Temporary password: %s\n\n", data.TempPassword))
	buf.WriteString("Sign in here and change your password on first login:\n")
	buf.WriteString(data.LoginURL + "\n")
	return buf.String()
}

func buildWelcomeHTML(data WelcomeEmailData) string {
	tmpl := template.Must(template.New("welcome").Parse(welcomeHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const welcomeHTMLTemplate = `<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 24px; font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <div style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
    <h1 style="margin: 0 0 16px; font-size: 22px; color: #1d4ed8;">{{.SiteName}}</h1>
    <p>Hello {{.Username}},</p>
    <p>An account has been created for you. Use the credentials below to sign in, then change your password.</p>
    <p style="background: #f9fafb; padding: 12px; border-radius: 6px;">
      Email: <strong>{{.Email}}</strong><br>
      Temporary password: <strong>{{.TempPassword}}</strong>
    </p>
    <p><a href="{{.LoginURL}}" style="color: #1d4ed8;">Sign in to {{.SiteName}}</a></p>
  </div>
</body>
</html>`

// ReferralEmailData holds data for the referral code email.
type ReferralEmailData struct {
	SiteName  string
	Email     string
	Code      string
	ExpiresOn string
}

// BuildReferralEmail creates the email delivering a referral code.
func BuildReferralEmail(data ReferralEmailData) Email {
	return Email{
		To:       data.Email,
		Subject:  fmt.Sprintf("Your %s referral code", data.SiteName),
		TextBody: buildReferralText(data),
		HTMLBody: buildReferralHTML(data),
	}
}

func buildReferralText(data ReferralEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Your %s referral code is: %s\n\n", data.SiteName, data.Code))
	buf.WriteString(fmt.Sprintf("This code expires on %s.\n", data.ExpiresOn))
	return buf.String()
}

func buildReferralHTML(data ReferralEmailData) string {
	tmpl := template.Must(template.New("referral").Parse(referralHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const referralHTMLTemplate = `<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 24px; font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <div style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
    <h1 style="margin: 0 0 16px; font-size: 22px; color: #1d4ed8;">{{.SiteName}}</h1>
    <p>You have been referred on {{.SiteName}}. Use this code when registering:</p>
    <p style="font-size: 24px; letter-spacing: 2px; text-align: center; background: #f9fafb; padding: 16px; border-radius: 6px;"><strong>{{.Code}}</strong></p>
    <p>This code expires on {{.ExpiresOn}}.</p>
  </div>
</body>
</html>`
