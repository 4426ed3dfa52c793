package service

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"text/template"
	"time"

	"memberhub-backend/internal/config"
	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/email"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/repository"
)

// mailTemplate holds a subject line and a Markdown body. Both are text/templates over mailData.
type mailTemplate struct {
	subject *template.Template
	body    *template.Template
}

func newMailTemplate(name, subject, body string) mailTemplate {
	return mailTemplate{
		subject: template.Must(template.New(name + "_subject").Parse(subject)),
		body:    template.Must(template.New(name + "_body").Parse(body)),
	}
}

var mailTemplates = map[domain.MailKind]mailTemplate{
	domain.MailKindApplicationSubmitted: newMailTemplate("submitted",
		`We received your {{.SiteName}} membership application`,
		`Dear {{.Name}},

Thank you for applying for **{{.PlanName}}** membership of {{.SiteName}}.

Your application reference is `+"`{{.ApplicationID}}`"+`. Our committee reviews applications regularly and we will email you once a decision has been made.
{{if .SiteURL}}
{{.SiteURL}}
{{end}}`),

	domain.MailKindAdminNewApplication: newMailTemplate("admin_new",
		`New membership application from {{.Name}}`,
		`A new membership application is waiting for review.

- **Name:** {{.Name}}
- **Email:** {{.Email}}
- **Plan:** {{.PlanName}}
{{- if .Organization}}
- **Organization:** {{.Organization}}
{{- end}}
- **Reference:** `+"`{{.ApplicationID}}`"+`
{{if .SiteURL}}
Review it at {{.SiteURL}}/admin/applications/{{.ApplicationID}}
{{end}}`),

	domain.MailKindApplicationApproved: newMailTemplate("approved",
		`Welcome to {{.SiteName}}`,
		`Dear {{.Name}},

Your application has been approved and you are now a **{{.PlanName}}** of {{.SiteName}}.

{{if .ExpiryDate}}Your membership is valid until {{.ExpiryDate}}.{{else}}Your membership does not expire.{{end}}
{{if .SiteURL}}
Sign in at {{.SiteURL}} to complete your member profile.
{{end}}`),

	domain.MailKindApplicationRejected: newMailTemplate("rejected",
		`Your {{.SiteName}} membership application`,
		`Dear {{.Name}},

Thank you for your interest in {{.SiteName}}. After review we are unable to accept your application at this time.
{{if .Notes}}
> {{.Notes}}
{{end}}
You are welcome to apply again in the future.`),

	domain.MailKindMembershipExpired: newMailTemplate("expired",
		`Your {{.SiteName}} membership has expired`,
		`Dear {{.Name}},

Your {{.SiteName}} membership expired on {{.ExpiryDate}}.

Please contact us to renew and keep your member benefits.{{if .SiteURL}} {{.SiteURL}}{{end}}`),

	domain.MailKindMembershipExpiring: newMailTemplate("expiring",
		`Your {{.SiteName}} membership expires in {{.DaysLeft}} day{{if ne .DaysLeft 1}}s{{end}}`,
		`Dear {{.Name}},

This is a reminder that your {{.SiteName}} membership expires on **{{.ExpiryDate}}**.

Renew before then to avoid any interruption.{{if .SiteURL}} {{.SiteURL}}{{end}}`),
}

type mailData struct {
	SiteName      string
	SiteURL       string
	Name          string
	Email         string
	Organization  string
	PlanName      string
	ApplicationID string
	Notes         string
	ExpiryDate    string
	DaysLeft      int
}

// slotted returns a copy of d with every user-supplied value swapped for a plain
// alphanumeric token, and a replacer mapping the tokens to the HTML-escaped values.
func (d mailData) slotted() (mailData, *strings.Replacer) {
	var pairs []string
	slot := func(v string) string {
		if v == "" {
			return ""
		}
		token := fmt.Sprintf("mhslot%dx", len(pairs)/2)
		pairs = append(pairs, token, html.EscapeString(v))
		return token
	}
	d.Name = slot(d.Name)
	d.Email = slot(d.Email)
	d.Organization = slot(d.Organization)
	d.Notes = slot(d.Notes)
	d.PlanName = slot(d.PlanName)
	return d, strings.NewReplacer(pairs...)
}

type notificationService struct {
	mailRepo repository.MailRepository
	cfg      config.EmailConfig
}

func NewNotificationService(mailRepo repository.MailRepository, cfg config.EmailConfig) NotificationService {
	return &notificationService{mailRepo: mailRepo, cfg: cfg}
}

func (s *notificationService) ApplicationSubmitted(ctx context.Context, app *domain.MembershipApplication, planName string) error {
	data := s.baseData(app.ApplicantProfile)
	data.PlanName = planName
	data.ApplicationID = app.ID
	return s.enqueue(ctx, domain.MailKindApplicationSubmitted, []string{app.Email}, data)
}

func (s *notificationService) AdminNewApplication(ctx context.Context, app *domain.MembershipApplication, planName string) error {
	if len(s.cfg.AdminRecipients) == 0 {
		logger.Warn("No admin recipients configured, skipping new application alert", "applicationID", app.ID)
		return nil
	}
	data := s.baseData(app.ApplicantProfile)
	data.PlanName = planName
	data.ApplicationID = app.ID
	return s.enqueue(ctx, domain.MailKindAdminNewApplication, s.cfg.AdminRecipients, data)
}

func (s *notificationService) ApplicationApproved(ctx context.Context, member *domain.Member, planName string) error {
	data := s.baseData(member.ApplicantProfile)
	data.PlanName = planName
	data.ExpiryDate = formatDate(member.ExpiryDate)
	return s.enqueue(ctx, domain.MailKindApplicationApproved, []string{member.Email}, data)
}

func (s *notificationService) ApplicationRejected(ctx context.Context, app *domain.MembershipApplication, notes string) error {
	data := s.baseData(app.ApplicantProfile)
	data.ApplicationID = app.ID
	data.Notes = singleLine(notes)
	return s.enqueue(ctx, domain.MailKindApplicationRejected, []string{app.Email}, data)
}

func (s *notificationService) MembershipExpired(ctx context.Context, member *domain.Member) error {
	data := s.baseData(member.ApplicantProfile)
	data.ExpiryDate = formatDate(member.ExpiryDate)
	return s.enqueue(ctx, domain.MailKindMembershipExpired, []string{member.Email}, data)
}

func (s *notificationService) MembershipExpiring(ctx context.Context, member *domain.Member, daysLeft int) error {
	data := s.baseData(member.ApplicantProfile)
	data.ExpiryDate = formatDate(member.ExpiryDate)
	data.DaysLeft = daysLeft
	return s.enqueue(ctx, domain.MailKindMembershipExpiring, []string{member.Email}, data)
}

func (s *notificationService) baseData(p domain.ApplicantProfile) mailData {
	return mailData{
		SiteName:     s.cfg.SiteName,
		SiteURL:      strings.TrimRight(s.cfg.SiteURL, "/"),
		Name:         singleLine(p.DisplayName()),
		Email:        singleLine(p.Email),
		Organization: singleLine(p.Organization),
	}
}

func (s *notificationService) enqueue(ctx context.Context, kind domain.MailKind, to []string, data mailData) error {
	msg, err := renderMail(kind, to, data)
	if err != nil {
		return err
	}
	msg.MaxAttempts = s.cfg.MaxAttempts
	if err := s.mailRepo.Enqueue(ctx, msg); err != nil {
		return fmt.Errorf("failed to enqueue %s mail: %w", kind, err)
	}
	logger.Debug("Mail queued", "kind", kind, "mailID", msg.ID, "recipients", len(to))
	return nil
}

func renderMail(kind domain.MailKind, to []string, data mailData) (*domain.MailMessage, error) {
	tmpl, ok := mailTemplates[kind]
	if !ok {
		return nil, fmt.Errorf("no template for mail kind %s", kind)
	}

	var subject, body, slotted bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("failed to render %s subject: %w", kind, err)
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to render %s body: %w", kind, err)
	}

	// Applicant-supplied text never reaches the Markdown parser. The HTML part is rendered
	// with opaque slots which are then replaced by the escaped values.
	slottedData, fill := data.slotted()
	if err := tmpl.body.Execute(&slotted, slottedData); err != nil {
		return nil, fmt.Errorf("failed to render %s body: %w", kind, err)
	}
	htmlBody, err := email.RenderMarkdown(slotted.String())
	if err != nil {
		return nil, fmt.Errorf("failed to render %s html: %w", kind, err)
	}
	htmlBody = fill.Replace(htmlBody)

	now := time.Now().UTC()
	return &domain.MailMessage{
		To:            to,
		Subject:       strings.TrimSpace(subject.String()),
		TextBody:      strings.TrimSpace(body.String()),
		HTMLBody:      htmlBody,
		Kind:          kind,
		Status:        domain.MailStatusPending,
		CreatedAt:     now,
		NextAttemptAt: now,
	}, nil
}

// singleLine collapses runs of whitespace, newlines included, to one space
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2 January 2006")
}
