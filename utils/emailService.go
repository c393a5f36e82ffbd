package utils

import (
	"context"
	"fmt"

	"coursetrack/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// MailSender is the part of the SendGrid client the notifier needs.
type MailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// ContactDirectory resolves recipients and display names for emails.
type ContactDirectory interface {
	Contact(ctx context.Context, userID uint) (name, email string, err error)
	CourseName(ctx context.Context, courseID uint) (string, error)
	QuizTitle(ctx context.Context, quizID uint) (string, error)
}

// EmailNotifier sends lifecycle emails. It is fire-and-forget: failures are
// logged and never reported back to the caller.
type EmailNotifier struct {
	sender    MailSender
	directory ContactDirectory
	from      *mail.Email
	log       *logger.Logger
}

func NewEmailNotifier(apiKey, fromAddress, fromName string, directory ContactDirectory, log *logger.Logger) *EmailNotifier {
	return NewEmailNotifierWithSender(sendgrid.NewSendClient(apiKey), fromAddress, fromName, directory, log)
}

func NewEmailNotifierWithSender(sender MailSender, fromAddress, fromName string, directory ContactDirectory, log *logger.Logger) *EmailNotifier {
	return &EmailNotifier{
		sender:    sender,
		directory: directory,
		from:      mail.NewEmail(fromName, fromAddress),
		log:       log.With("component", "email"),
	}
}

// SendEmail delivers one HTML email through SendGrid.
func (n *EmailNotifier) SendEmail(ctx context.Context, toName, toAddress, subject, htmlBody string) error {
	message := mail.NewSingleEmail(n.from, subject, mail.NewEmail(toName, toAddress), "", htmlBody)
	resp, err := n.sender.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	n.log.Debug("email sent", "to", toAddress, "subject", subject)
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B3A5C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B3A5C; line-height: 1.6; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #2E8B57; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>COURSETRACK</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// CourseCompleted fires when an enrollment first reaches 100%.
func (n *EmailNotifier) CourseCompleted(ctx context.Context, userID, courseID uint) {
	name, email, err := n.directory.Contact(ctx, userID)
	if err != nil {
		n.log.Warn("course completed email skipped", "user_id", userID, "error", err)
		return
	}
	courseName, err := n.directory.CourseName(ctx, courseID)
	if err != nil {
		n.log.Warn("course completed email skipped", "course_id", courseID, "error", err)
		return
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have completed every lecture of <strong>%s</strong>.</p>
		<p>Your certificate of completion is now available from your dashboard.</p>
	`, name, courseName)
	if err := n.SendEmail(ctx, name, email, "Course completed: "+courseName, getEmailTemplate("Congratulations!", body)); err != nil {
		n.log.Error("course completed email failed", "user_id", userID, "error", err)
	}
}

// QuizPassed fires on a learner's first passing attempt of a quiz.
func (n *EmailNotifier) QuizPassed(ctx context.Context, userID, quizID uint, score int) {
	name, email, err := n.directory.Contact(ctx, userID)
	if err != nil {
		n.log.Warn("quiz passed email skipped", "user_id", userID, "error", err)
		return
	}
	title, err := n.directory.QuizTitle(ctx, quizID)
	if err != nil {
		n.log.Warn("quiz passed email skipped", "quiz_id", quizID, "error", err)
		return
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You passed <strong>%s</strong> with a score of <strong>%d%%</strong>.</p>
	`, name, title, score)
	if err := n.SendEmail(ctx, name, email, "Quiz passed: "+title, getEmailTemplate("Quiz Passed", body)); err != nil {
		n.log.Error("quiz passed email failed", "user_id", userID, "error", err)
	}
}

// CertificateIssued fires once the certificate artifact has been rendered.
func (n *EmailNotifier) CertificateIssued(ctx context.Context, userID, courseID uint, certificateURL string) {
	name, email, err := n.directory.Contact(ctx, userID)
	if err != nil {
		n.log.Warn("certificate email skipped", "user_id", userID, "error", err)
		return
	}
	courseName, err := n.directory.CourseName(ctx, courseID)
	if err != nil {
		n.log.Warn("certificate email skipped", "course_id", courseID, "error", err)
		return
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your certificate for <strong>%s</strong> is ready.</p>
		<a href="%s" class="btn">Download Certificate</a>
	`, name, courseName, certificateURL)
	if err := n.SendEmail(ctx, name, email, "Your certificate for "+courseName, getEmailTemplate("Certificate Issued", body)); err != nil {
		n.log.Error("certificate email failed", "user_id", userID, "error", err)
	}
}
