package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names used by EmailJob.Template.
const (
	VerifyEmail      = "verify_email"
	ForgotPassword   = "forgot_password"
	BookingConfirmed = "booking_confirmed"
)

var bodies = map[string]*template.Template{
	VerifyEmail: template.Must(template.New(VerifyEmail).Parse(`
<h2>Verify your email</h2>
<p>Hi {{.Name}},</p>
<p>Welcome to {{.StudioName}}. Confirm your email address to activate your account:</p>
<p><a href="{{.Link}}">Verify email</a></p>
<p>The link expires in 24 hours. If you did not create an account, ignore this message.</p>
`)),
	ForgotPassword: template.Must(template.New(ForgotPassword).Parse(`
<h2>Reset your password</h2>
<p>Hi {{.Name}},</p>
<p>We received a request to reset the password for {{.Email}}. Use the link below:</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>The link expires in 30 minutes. If you did not request this, ignore this message.</p>
`)),
	BookingConfirmed: template.Must(template.New(BookingConfirmed).Parse(`
<h2>Booking confirmed</h2>
<p>Hi {{.Name}},</p>
<p>Your {{.BookingType}} booking{{if .ClassName}} for <b>{{.ClassName}}</b>{{end}} at {{.LocationName}} is confirmed.</p>
<p>Starts: {{.StartTime}}</p>
<p>Check-in opens 30 minutes before the start time and closes 15 minutes after.</p>
`)),
}

var subjects = map[string]string{
	VerifyEmail:      "Verify your email address",
	ForgotPassword:   "Reset your password",
	BookingConfirmed: "Your booking is confirmed",
}

// Render produces the subject and HTML body for a named template.
func Render(name string, data map[string]any) (subject, html string, err error) {
	tpl, ok := bodies[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return subjects[name], buf.String(), nil
}
