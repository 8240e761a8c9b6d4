package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
)

// minPhoneLength is the shortest emergency contact number accepted.
const minPhoneLength = 6

var ErrDispatchFailed = errors.New("emergency dispatch failed")

type DispatchStatus string

const (
	StatusNoContacts      DispatchStatus = "NoContacts"
	StatusSuccess         DispatchStatus = "Success"
	StatusPartialFallback DispatchStatus = "PartialFallback"
)

type DispatchResult struct {
	Status        DispatchStatus `json:"status"`
	MatchedCount  *int64         `json:"matchedCount,omitempty"`
	FallbackCount int            `json:"fallbackCount,omitempty"`
}

// FallbackAlert carries the contact numbers that have no account.
type FallbackAlert struct {
	SenderEmail string
	Phones      []string
	Message     string
}

// Relay forwards alerts for unregistered numbers to an out-of-band channel.
type Relay interface {
	Relay(ctx context.Context, alert FallbackAlert) error
}

type Dispatcher struct {
	store store.RecordStore
	clock clock.Clock
	relay Relay
}

// NewDispatcher builds a dispatcher. relay may be nil.
func NewDispatcher(st store.RecordStore, c clock.Clock, relay Relay) *Dispatcher {
	return &Dispatcher{store: st, clock: c, relay: relay}
}

// Dispatch alerts every account whose own phone matches one of the sender's
// emergency contacts. The alert is appended to all matching accounts in a
// single store call.
func (d *Dispatcher) Dispatch(ctx context.Context, senderEmail string) (*DispatchResult, error) {
	sender, err := d.store.FindUserByEmail(ctx, senderEmail)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	targets := TargetPhones(sender)
	if len(targets) == 0 {
		metrics.EmergencyDispatches.WithLabelValues(string(StatusNoContacts)).Inc()
		return &DispatchResult{Status: StatusNoContacts}, nil
	}

	message := AlertMessage(sender)
	alert := models.Notification{
		Message: message,
		Type:    models.NotificationTypeEmergency,
		Date:    d.clock.Now().UTC(),
	}

	matched, err := d.store.AppendNotificationByPhones(ctx, targets, alert)
	if err != nil {
		metrics.EmergencyDispatches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	metrics.EmergencyRecipients.Add(float64(matched))

	result := &DispatchResult{Status: StatusSuccess, MatchedCount: &matched}
	if d.relay != nil {
		if unmatched := d.unmatched(ctx, targets); len(unmatched) > 0 {
			err := d.relay.Relay(ctx, FallbackAlert{SenderEmail: sender.Email, Phones: unmatched, Message: message})
			if err != nil {
				slog.Error("emergency fallback relay failed", "email", sender.Email, "action", "emergency_fallback", "error", err)
			} else {
				result.Status = StatusPartialFallback
				result.FallbackCount = len(unmatched)
			}
		}
	}

	slog.Info("emergency alert dispatched", "email", sender.Email, "targets", len(targets), "matched", matched, "status", result.Status)
	metrics.EmergencyDispatches.WithLabelValues(string(result.Status)).Inc()
	return result, nil
}

func (d *Dispatcher) unmatched(ctx context.Context, targets []string) []string {
	registered, err := d.store.RegisteredPhones(ctx, targets)
	if err != nil {
		slog.Error("emergency fallback lookup failed", "action", "emergency_fallback", "error", err)
		return nil
	}
	known := make(map[string]bool, len(registered))
	for _, p := range registered {
		known[p] = true
	}
	var out []string
	for _, p := range targets {
		if !known[p] {
			out = append(out, p)
		}
	}
	return out
}

// TargetPhones returns the sender's trimmed, de-duplicated emergency contact
// numbers, dropping any shorter than minPhoneLength.
func TargetPhones(sender *models.User) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range sender.EmergencyContactPhones() {
		if len(p) < minPhoneLength || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// AlertMessage is the text every recipient of one dispatch receives.
func AlertMessage(sender *models.User) string {
	name := strings.TrimSpace(sender.Name)
	if name == "" {
		name = sender.Email
	}
	location := strings.TrimSpace(sender.Location)
	if location == "" {
		location = strings.TrimSpace(sender.City)
	}
	if location == "" {
		location = "Unknown location"
	}
	phone := sender.CallbackPhone()
	if phone == "" {
		phone = "not provided"
	}
	return fmt.Sprintf("EMERGENCY: %s needs help! Location: %s. Call back: %s", name, location, phone)
}
