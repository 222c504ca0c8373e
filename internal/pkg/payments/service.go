package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JonasWeidner/CoachDesk/app/models"
	"github.com/JonasWeidner/CoachDesk/app/repository"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/audit"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/invoice"
	"github.com/JonasWeidner/CoachDesk/internal/pkg/mail"
)

// Pipeline step names, in execution order.
const (
	StepDedup     = "dedup"
	StepCorrelate = "correlate"
	StepUpdate    = "update"
	StepRender    = "render"
	StepNotify    = "notify"
	StepAudit     = "audit"
)

// Service runs the payment-completion reconciliation pipeline. All
// collaborators are injected behind narrow interfaces; the service itself
// holds no mutable state and is safe for concurrent use.
type Service struct {
	payments repository.PendingPaymentRepository
	events   repository.WebhookEventRepository
	auditor  *audit.Recorder
	renderer invoice.Renderer
	mailer   mail.Mailer
	dedup    Deduper
}

// ServiceConfig wires the pipeline's collaborators.
type ServiceConfig struct {
	Payments repository.PendingPaymentRepository
	Events   repository.WebhookEventRepository
	Auditor  *audit.Recorder
	Renderer invoice.Renderer
	Mailer   mail.Mailer
	// Dedup is the optional cache fast path in front of the webhook event
	// table; nil disables it and the table alone gates duplicates.
	Dedup Deduper
}

// NewService creates the reconciliation service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		payments: cfg.Payments,
		events:   cfg.Events,
		auditor:  cfg.Auditor,
		renderer: cfg.Renderer,
		mailer:   cfg.Mailer,
		dedup:    cfg.Dedup,
	}
}

// CompleteCheckout reconciles one verified "checkout completed" event.
//
// The continue/abort policy is deliberately a visible sequence here rather
// than nested error handling: once the event is verified and deduplicated,
// every downstream step is best-effort and independently caught, so one
// failing step can never prevent the others. Only the financial state write
// is escalated (alert severity) when it fails.
func (s *Service) CompleteCheckout(ctx context.Context, ev CheckoutCompleted) Result {
	res := Result{Outcome: OutcomeCompleted, PaymentID: ev.PendingPaymentID}

	// Idempotency gate. A redelivered event id short-circuits before any
	// side effect runs.
	eventRowID, dup, dedupStep := s.recordDelivery(ev)
	res.add(dedupStep)
	if dup {
		res.Outcome = OutcomeDuplicate
		return res
	}

	// Correlation. Both miss branches acknowledge success by design: the
	// provider's bookkeeping is correct, ours is simply not involved.
	payment, corrStep := s.correlate(ev)
	res.add(corrStep)
	if payment == nil {
		res.Outcome = OutcomeIgnored
		s.auditor.Record(models.AuditActionPaymentUnmatched, ev.PendingPaymentID, map[string]interface{}{
			"event_id":   ev.EventID,
			"session_id": ev.SessionID,
			"reason":     corrStep.errString(),
		})
		s.markProcessed(eventRowID, corrStep.Err)
		return res
	}

	total := FromCents(ev.AmountTotalCents)
	bonus := Bonus(total, payment.BaseAmount)

	if payment.IsCompleted() {
		log.Infof("payment %s already completed, re-applying identical completion", payment.ID)
	}

	// Financial state first; everything after it is cosmetic by comparison.
	updateStep := s.applyCompletion(payment.ID, ev.SessionID, bonus, total)
	res.add(updateStep)

	inv := invoice.New(
		payment.InvoiceNumber,
		payment.ClientName,
		payment.ClientEmail,
		BuildLineItems(payment.Description, payment.BaseAmount, bonus),
		payment.Notes,
	)

	attachment, renderStep := s.renderInvoice(inv)
	res.add(renderStep)

	notifyStep := s.sendConfirmation(ctx, payment, inv, attachment)
	res.add(notifyStep)

	for _, step := range res.Steps {
		if step.Status == StepFailed {
			res.Outcome = OutcomePartial
			break
		}
	}

	s.auditor.Record(models.AuditActionPaymentCompleted, payment.ID, map[string]interface{}{
		"event_id":       ev.EventID,
		"session_id":     ev.SessionID,
		"invoice_number": payment.InvoiceNumber,
		"base_amount":    payment.BaseAmount.StringFixed(2),
		"bonus_amount":   bonus.StringFixed(2),
		"total_amount":   total.StringFixed(2),
		"outcome":        res.Outcome,
		"steps":          stepSummary(res.Steps),
	})
	res.add(stepOK(StepAudit))

	s.markProcessed(eventRowID, firstFailure(res.Steps))
	return res
}

// recordDelivery registers the event id and reports whether this delivery is
// a duplicate. A failing cache or event table never blocks the pipeline; it
// only weakens dedup down to the idempotent completion write.
func (s *Service) recordDelivery(ev CheckoutCompleted) (rowID uint, duplicate bool, step StepResult) {
	if s.dedup != nil && !s.dedup.FirstDelivery(ev.EventID) {
		log.Infof("webhook event %s already seen (cache), skipping", ev.EventID)
		return 0, true, stepSkipped(StepDedup)
	}

	if s.events == nil {
		return 0, false, stepOK(StepDedup)
	}

	created, stored, err := s.events.CreateIfNotExists(&models.PaymentWebhookEvent{
		Provider:        models.PaymentProviderStripe,
		ProviderEventID: ev.EventID,
		EventType:       ev.EventType,
		PayloadJSON:     string(ev.RawPayload),
		SignatureValid:  true,
	})
	if err != nil {
		log.Warnf("could not persist webhook event %s: %v", ev.EventID, err)
		return 0, false, stepFailed(StepDedup, SeverityWarn, err)
	}
	if !created {
		log.Infof("webhook event %s already recorded, skipping", ev.EventID)
		return stored.ID, true, stepSkipped(StepDedup)
	}
	return stored.ID, false, stepOK(StepDedup)
}

// correlate resolves the pending payment named by the event metadata. A nil
// payment means "acknowledge and do nothing".
func (s *Service) correlate(ev CheckoutCompleted) (*models.PendingPayment, StepResult) {
	if strings.TrimSpace(ev.PendingPaymentID) == "" {
		log.Infof("checkout session %s carries no pending payment id, acknowledging without action", ev.SessionID)
		return nil, stepSkipped(StepCorrelate)
	}

	payment, err := s.payments.GetByID(ev.PendingPaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("no pending payment %s for session %s", ev.PendingPaymentID, ev.SessionID)
			return nil, stepFailed(StepCorrelate, SeverityWarn, fmt.Errorf("pending payment %s not found", ev.PendingPaymentID))
		}
		log.Errorf("pending payment lookup %s failed: %v", ev.PendingPaymentID, err)
		return nil, stepFailed(StepCorrelate, SeverityAlert, err)
	}
	return payment, stepOK(StepCorrelate)
}

// applyCompletion writes the completion merge. This is the one failure class
// that leaves financial state stale, hence alert severity.
func (s *Service) applyCompletion(paymentID, sessionID string, bonus, total decimal.Decimal) StepResult {
	if err := s.payments.MarkCompleted(paymentID, sessionID, bonus, total); err != nil {
		log.Errorf("ALERT: completion update for payment %s failed, state is stale: %v", paymentID, err)
		return stepFailed(StepUpdate, SeverityAlert, err)
	}
	return stepOK(StepUpdate)
}

func (s *Service) renderInvoice(inv invoice.Invoice) (*mail.Attachment, StepResult) {
	if s.renderer == nil {
		return nil, stepSkipped(StepRender)
	}
	result := s.renderer.Render(inv)
	if !result.Success {
		log.Warnf("invoice %s render failed, confirmation goes out without attachment: %s", inv.InvoiceNumber, result.Error)
		return nil, stepFailed(StepRender, SeverityWarn, errors.New(result.Error))
	}
	return &mail.Attachment{
		Filename:    fmt.Sprintf("invoice-%s.pdf", inv.InvoiceNumber),
		Content:     result.PDF,
		ContentType: "application/pdf",
	}, stepOK(StepRender)
}

func (s *Service) sendConfirmation(ctx context.Context, payment *models.PendingPayment, inv invoice.Invoice, attachment *mail.Attachment) StepResult {
	if s.mailer == nil {
		return stepSkipped(StepNotify)
	}

	msg := confirmationMessage(payment, inv)
	msg.Attachment = attachment

	result := s.mailer.Send(ctx, msg)
	if !result.Success {
		log.Warnf("confirmation email for payment %s failed: %s", payment.ID, result.Error)
		return stepFailed(StepNotify, SeverityWarn, errors.New(result.Error))
	}
	return stepOK(StepNotify)
}

func (s *Service) markProcessed(rowID uint, processingErr error) {
	if s.events == nil || rowID == 0 {
		return
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	if err := s.events.MarkProcessed(rowID, errMsg); err != nil {
		log.Warnf("could not mark webhook event %d processed: %v", rowID, err)
	}
}

func confirmationMessage(payment *models.PendingPayment, inv invoice.Invoice) mail.Message {
	total := inv.Total.StringFixed(2)
	return mail.Message{
		To:      payment.ClientEmail,
		ToName:  payment.ClientName,
		Subject: fmt.Sprintf("Payment received - Invoice %s", payment.InvoiceNumber),
		Text: fmt.Sprintf(
			"Hi %s,\n\nwe received your payment of $%s for %q.\nYour invoice number is %s.\n\nThank you!\n",
			payment.ClientName, total, payment.Description, payment.InvoiceNumber,
		),
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>we received your payment of <strong>$%s</strong> for <em>%s</em>.<br>Your invoice number is <strong>%s</strong>.</p><p>Thank you!</p>",
			payment.ClientName, total, payment.Description, payment.InvoiceNumber,
		),
	}
}

func (s StepResult) errString() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

func stepSummary(steps []StepResult) map[string]string {
	summary := make(map[string]string, len(steps))
	for _, step := range steps {
		if step.Err != nil {
			summary[step.Name] = step.Status + ": " + step.Err.Error()
		} else {
			summary[step.Name] = step.Status
		}
	}
	return summary
}

func firstFailure(steps []StepResult) error {
	for _, step := range steps {
		if step.Status == StepFailed && step.Err != nil {
			return fmt.Errorf("%s: %w", step.Name, step.Err)
		}
	}
	return nil
}
