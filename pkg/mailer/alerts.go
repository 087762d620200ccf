package mailer

import "fmt"

const ipChangeSubject = "Security Alert: New Login Location Detected"

// NewIPChangeAlertJob builds the security notification sent when a login
// arrives from a new source address. oldIP is nil on the first recorded login.
func NewIPChangeAlertJob(email string, oldIP *string, newIP string) EmailJob {
	var body string
	if oldIP != nil {
		body = fmt.Sprintf(`Hello,

We detected a login to your account from a new location.

Previous IP Address: %s
New IP Address: %s

If this was you, no action is needed. If you did not log in from this location, please secure your account immediately.

Best regards,
Asset Management System
`, *oldIP, newIP)
	} else {
		body = fmt.Sprintf(`Hello,

This is your first login from this location.

IP Address: %s

If you did not log in, please secure your account immediately.

Best regards,
Asset Management System
`, newIP)
	}
	return EmailJob{To: email, Subject: ipChangeSubject, Text: body}
}
