// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"pillflow-backend/metrics"
	"pillflow-backend/models"
	"pillflow-backend/store"
	"pillflow-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

const (
	ReminderSent   = "sent"
	ReminderFailed = "failed"
)

// Sender delivers a text message and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSid, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

type ReminderConfig struct {
	// Schedule is a standard five-field cron spec.
	Schedule string
	// After is how long a pack may stay scanned out before a reminder.
	After time.Duration
	// To is the phone number that receives reminders.
	To string
}

// ReminderService texts the pharmacy about packs that left but were never
// marked delivered. Each pack gets at most one successful reminder.
type ReminderService struct {
	store  store.Store
	sender Sender
	cfg    ReminderConfig
	log    *zap.Logger
	clock  func() time.Time
	cron   *cron.Cron
}

func NewReminderService(st store.Store, sender Sender, cfg ReminderConfig, log *zap.Logger) *ReminderService {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.After <= 0 {
		cfg.After = 24 * time.Hour
	}
	return &ReminderService{store: st, sender: sender, cfg: cfg, log: log, clock: time.Now}
}

func (s *ReminderService) StartScheduler() error {
	c := cron.New()
	_, err := c.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.SendDeliveryReminders(context.Background()); err != nil {
			s.log.Error("delivery reminder run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", s.cfg.Schedule, err)
	}
	c.Start()
	s.cron = c
	s.log.Info("reminder scheduler started", zap.String("schedule", s.cfg.Schedule))
	return nil
}

// Stop waits for a running job to finish.
func (s *ReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// SendDeliveryReminders sends one reminder per overdue pack and returns
// how many were sent.
func (s *ReminderService) SendDeliveryReminders(ctx context.Context) (int, error) {
	now := s.clock()
	overdue, err := s.store.ListScanOuts(ctx, store.ScanOutFilter{
		Status:        models.ScannedOut,
		CreatedBefore: now.Add(-s.cfg.After),
	})
	if err != nil {
		return 0, fmt.Errorf("list overdue scan outs: %w", err)
	}

	sent := 0
	for i := range overdue {
		scanOut := &overdue[i]
		done, err := s.store.ReminderSent(ctx, scanOut.ID)
		if err != nil {
			return sent, fmt.Errorf("check reminder log: %w", err)
		}
		if done {
			continue
		}
		if s.remind(ctx, scanOut, now) {
			sent++
		}
	}

	s.log.Info("delivery reminder run completed", zap.Int("overdue", len(overdue)), zap.Int("sent", sent))
	return sent, nil
}

func (s *ReminderService) remind(ctx context.Context, scanOut *models.ScanOut, now time.Time) bool {
	name := "unknown customer"
	if customer, err := s.store.GetCustomer(ctx, scanOut.CustomerID); err == nil {
		name = customer.FullName()
	}
	message := fmt.Sprintf("Pack %s for %s was scanned out %dh ago and is not marked delivered.",
		scanOut.WebsterPackID, name, utils.HoursBetween(scanOut.CreatedAt, now))

	status := ReminderSent
	errorMsg := ""
	sid, err := s.sender.Send(ctx, s.cfg.To, message)
	if err != nil {
		s.log.Warn("failed to send delivery reminder", zap.String("scan_out_id", scanOut.ID.String()), zap.Error(err))
		status = ReminderFailed
		errorMsg = err.Error()
	} else {
		s.log.Info("delivery reminder sent", zap.String("scan_out_id", scanOut.ID.String()), zap.String("sid", sid))
	}
	metrics.DeliveryReminders.WithLabelValues(status).Inc()

	entry := &models.DeliveryReminderLog{
		ScanOutID:    scanOut.ID,
		Channel:      "sms",
		Status:       status,
		Message:      message,
		ErrorMessage: errorMsg,
		SentAt:       now,
	}
	if err := s.store.CreateReminderLog(ctx, entry); err != nil {
		s.log.Error("failed to log reminder", zap.String("scan_out_id", scanOut.ID.String()), zap.Error(err))
	}
	return status == ReminderSent
}
