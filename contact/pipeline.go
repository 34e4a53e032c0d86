package contact

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// User-facing messages. Rejections never reveal which check failed beyond
// the broad category; the specific reason goes to the server log only.
const (
	msgSent = "Your message has been sent successfully! I'll get back to you as soon as possible."
	// The honeypot path reports success so scripted abuse learns nothing.
	msgHoneypot    = "Your message has been sent successfully!"
	msgInvalid     = "Please correct the highlighted fields and try again."
	msgVerifyFail  = "reCAPTCHA verification failed. Please try again."
	msgIPLimited   = "You've reached the maximum number of submissions for today. Please try again tomorrow."
	msgDailyLimit  = "We've reached our daily message limit. Please try again tomorrow."
	msgSpam        = "Your message appears to contain prohibited content. Please review and try again."
	msgSendFailure = "Failed to send your message. Please try again later."
)

// Result is the caller-visible outcome of a submission.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// Pipeline runs a submission through each stage in order, short-circuiting
// on the first rejection. A nil Verifier or Limiter skips that stage.
type Pipeline struct {
	Verifier      Verifier
	IPLimiter     Limiter
	GlobalLimiter Limiter
	Mailer        Mailer

	// Production makes a missing bot token a hard rejection. Outside
	// production a missing token skips verification.
	Production bool

	Log *zap.Logger
}

// Submit processes one contact-form submission from the given caller IP.
func (p *Pipeline) Submit(ctx context.Context, sub Submission, ip string) Result {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(
		zap.String("submission_id", uuid.NewString()),
		zap.String("ip", ip),
	)

	// Stage 1: honeypot. Bots that fill the hidden field get a success
	// response and no email.
	if sub.Honeypot != "" {
		log.Info("submission dropped: honeypot field filled")
		return Result{Success: true, Message: msgHoneypot}
	}

	// Stage 2: schema validation.
	if errs := sub.Validate(); errs != nil {
		log.Info("submission rejected: validation failed", zap.Int("fields", len(errs)))
		return Result{Success: false, Message: msgInvalid, Errors: errs}
	}

	// Stage 3: bot verification.
	if !p.verify(ctx, log, sub.RecaptchaToken, ip) {
		return Result{Success: false, Message: msgVerifyFail}
	}

	// Stage 4: rate limits, per-IP then global. A store failure skips the
	// check rather than rejecting the submission.
	if rejected, msg := p.rateLimit(log, ip); rejected {
		return Result{Success: false, Message: msg}
	}

	// Stage 5: spam scan over the free-text fields.
	if containsSpam(sub.Subject) || containsSpam(sub.Message) {
		log.Info("submission rejected: spam pattern matched")
		return Result{Success: false, Message: msgSpam}
	}

	// Stage 6: dispatch.
	id, err := p.Mailer.Send(ctx, "[Contact Form] "+sub.Subject, formatEmail(sub), sub.Email)
	if err != nil {
		log.Error("sending notification email failed", zap.Error(err))
		return Result{Success: false, Message: msgSendFailure}
	}
	log.Info("contact form submitted",
		zap.String("message_id", id),
		zap.String("subject", sub.Subject),
	)
	return Result{Success: true, Message: msgSent}
}

func (p *Pipeline) verify(ctx context.Context, log *zap.Logger, token, ip string) bool {
	if token == "" && !p.Production {
		log.Info("no bot token supplied, skipping verification outside production")
		return true
	}
	if p.Verifier == nil {
		if p.Production {
			log.Error("bot verification is not configured")
			return false
		}
		return true
	}
	ok, err := p.Verifier.Verify(ctx, token, ip)
	if err != nil {
		log.Info("submission rejected: bot verification", zap.Error(err))
		return false
	}
	return ok
}

func (p *Pipeline) rateLimit(log *zap.Logger, ip string) (bool, string) {
	if p.IPLimiter != nil {
		allowed, err := p.IPLimiter.Allow(ip)
		if err != nil {
			log.Warn("per-IP rate limit store unavailable, skipping", zap.Error(err))
		} else if !allowed {
			log.Info("submission rejected: per-IP rate limit")
			return true, msgIPLimited
		}
	}
	if p.GlobalLimiter != nil {
		allowed, err := p.GlobalLimiter.Allow("global")
		if err != nil {
			log.Warn("global rate limit store unavailable, skipping", zap.Error(err))
		} else if !allowed {
			log.Info("submission rejected: global rate limit")
			return true, msgDailyLimit
		}
	}
	return false, ""
}

// formatEmail renders the HTML notification body. Field values are escaped
// before interpolation.
func formatEmail(sub Submission) string {
	var b strings.Builder
	b.WriteString("<h2>New Contact Form Submission</h2>\n")
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>\n", html.EscapeString(sub.Subject))
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>\n", html.EscapeString(sub.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>\n", html.EscapeString(sub.Email))
	consultation := "No"
	if sub.RequestConsultation {
		consultation = "Yes"
	}
	fmt.Fprintf(&b, "<p><strong>Consultation:</strong> %s</p>\n", consultation)
	if sub.RequestConsultation {
		fmt.Fprintf(&b, "<p><strong>Consultation Areas:</strong> %s</p>\n",
			html.EscapeString(formatConsultationAreas(sub)))
	}
	b.WriteString("<h3>Message:</h3>\n")
	message := strings.ReplaceAll(html.EscapeString(sub.Message), "\n", "<br/>")
	fmt.Fprintf(&b, "<p>%s</p>\n", message)
	return b.String()
}

func formatConsultationAreas(sub Submission) string {
	if !sub.RequestConsultation || len(sub.ConsultationAreas) == 0 {
		return "No consultation requested"
	}
	areas := strings.Join(sub.ConsultationAreas, ", ")
	if sub.OtherConsultationArea != "" && contains(sub.ConsultationAreas, "Other") {
		areas += fmt.Sprintf(" (%s)", sub.OtherConsultationArea)
	}
	return areas
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
