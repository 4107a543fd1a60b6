package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"kiba/internal/adapters/email"
	"kiba/internal/application/resolver"
	"kiba/internal/domain/payment"
)

// reminderRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var reminderRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// PaymentListStoreForOrchestrator lists payments for bulk operations.
type PaymentListStoreForOrchestrator interface {
	List(ctx context.Context) ([]payment.Payment, error)
}

// SendPaymentRemindersInput carries input for the reminder orchestrator.
type SendPaymentRemindersInput struct {
	From string // sender address override, optional
}

// SendPaymentRemindersDeps holds dependencies for SendPaymentReminders.
type SendPaymentRemindersDeps struct {
	PaymentStore PaymentListStoreForOrchestrator
	Resolver     PaymentResolver
	Sender       email.Sender
	Now          func() time.Time
}

// ReminderItem reports the outcome for one unpaid payment.
type ReminderItem struct {
	PaymentID string
	MemberID  string
	Email     string
	Sent      bool
	Skipped   string // reason when not attempted
	Err       error
}

// SendPaymentRemindersResult summarizes a reminder run.
type SendPaymentRemindersResult struct {
	Sent    int
	Skipped int
	Failed  int
	Items   []ReminderItem
}

// ExecuteSendPaymentReminders emails every member with a pending or overdue
// payment. Each send stands alone — a failed or skipped item does not stop
// the run. Members without an email address, and payments whose member no
// longer exists, are skipped.
// POST: One attempted email per unpaid payment with a reachable member
func ExecuteSendPaymentReminders(ctx context.Context, input SendPaymentRemindersInput, deps SendPaymentRemindersDeps) (SendPaymentRemindersResult, error) {
	payments, err := deps.PaymentStore.List(ctx)
	if err != nil {
		return SendPaymentRemindersResult{}, err
	}

	result := SendPaymentRemindersResult{Items: []ReminderItem{}}
	for _, p := range payments {
		if p.Status == payment.StatusPaid {
			continue
		}

		item := ReminderItem{PaymentID: p.ID, MemberID: p.MemberID}

		rp, err := deps.Resolver.ResolvePayment(ctx, p)
		if err != nil {
			item.Err = err
			result.Failed++
			result.Items = append(result.Items, item)
			continue
		}
		if rp.Member == nil {
			item.Skipped = "member no longer exists"
			result.Skipped++
			result.Items = append(result.Items, item)
			continue
		}
		if rp.Member.Email == "" {
			item.Skipped = "member has no email address"
			result.Skipped++
			result.Items = append(result.Items, item)
			continue
		}
		item.Email = rp.Member.Email

		html, err := renderReminderHTML(rp)
		if err != nil {
			item.Err = err
			result.Failed++
			result.Items = append(result.Items, item)
			continue
		}

		req := email.SendRequest{
			To:      []string{rp.Member.Email},
			From:    input.From,
			Subject: fmt.Sprintf("Payment reminder: %s %d", p.Month, p.Year),
			HTML:    html,
		}
		if _, err := deps.Sender.Send(ctx, req); err != nil {
			item.Err = err
			result.Failed++
			slog.Warn("payment_event", "event", "reminder_send_failed",
				"payment_id", p.ID, "member_id", p.MemberID, "error", err)
		} else {
			item.Sent = true
			result.Sent++
		}
		result.Items = append(result.Items, item)
	}

	slog.Info("payment_event", "event", "reminders_completed",
		"sent", result.Sent, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// renderReminderHTML builds the reminder body from a markdown template.
func renderReminderHTML(rp resolver.ResolvedPayment) (string, error) {
	md := fmt.Sprintf(
		"## Payment reminder\n\nHi %s,\n\nYour club fee for **%s %d** (%.2f) is currently *%s*.\nPlease settle it at the front desk or contact an administrator.\n\nThank you,\nClub KIBA",
		rp.Member.FullName, rp.Month, rp.Year, rp.Amount, rp.Status,
	)

	var buf bytes.Buffer
	if err := reminderRenderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render reminder: %w", err)
	}
	return buf.String(), nil
}
