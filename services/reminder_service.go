package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"envitefy.link/configs/configslog"
	"envitefy.link/models"
	"envitefy.link/pkg/recurrence"
	"envitefy.link/pkg/signup"
	"envitefy.link/repositories"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Notifier delivers a reminder to whoever should hear about it. The default
// implementation only logs; a mail or push sender plugs in here.
type Notifier interface {
	Notify(ctx context.Context, event *models.Event, occurrence time.Time, leadMinutes int) error
}

// LogNotifier writes reminders to the application log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, event *models.Event, occurrence time.Time, leadMinutes int) error {
	configslog.SLog.Infow("event reminder due",
		"event_id", event.ID, "title", event.Detail.Title,
		"occurrence", occurrence, "lead_minutes", leadMinutes)
	return nil
}

// reminderHorizon bounds how far ahead the scheduler looks when loading
// candidate events; signup.MaxReminderHours is the furthest a reminder can
// lead.
const reminderHorizon = (signup.MaxReminderHours + 1) * time.Hour

// ReminderService periodically scans upcoming events and fires their
// reminders: the event's own reminder list plus the signup sheet's
// autoRemindersHoursBefore. Dedup is in-memory per process; a restart may
// re-send reminders still inside their window.
type ReminderService struct {
	repo     repositories.IEventRepository
	notifier Notifier
	cron     *cron.Cron
	interval time.Duration

	mu   sync.Mutex
	sent map[string]struct{}
}

func NewReminderService(notifier Notifier) *ReminderService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &ReminderService{
		repo:     repositories.NewEventRepository(),
		notifier: notifier,
		interval: 5 * time.Minute,
		sent:     map[string]struct{}{},
	}
}

// Start schedules the scan on the given cron spec (e.g. "*/5 * * * *").
func (s *ReminderService) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		s.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("reminder cron spec %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	configslog.SLog.Infow("reminder scheduler started", "cron", spec)
	return nil
}

// Stop halts the cron loop and waits for a running scan to finish.
func (s *ReminderService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RunOnce performs a single scan. Exported so the migration/ops tooling can
// trigger it by hand.
func (s *ReminderService) RunOnce(ctx context.Context) {
	now := time.Now().UTC()
	events, err := s.repo.FindUpcoming(ctx, now.Add(reminderHorizon))
	if err != nil {
		return // repo already logged
	}

	for i := range events {
		event := &events[i]
		occurrence, ok := s.nextOccurrence(event, now)
		if !ok {
			continue
		}
		for _, lead := range s.leadMinutes(event) {
			fireAt := occurrence.Add(-time.Duration(lead) * time.Minute)
			if now.Before(fireAt) || now.Sub(fireAt) > s.interval {
				continue
			}
			key := fmt.Sprintf("%d/%s/%d", event.ID, occurrence.Format(time.RFC3339), lead)
			if !s.markSent(key) {
				continue
			}
			if err := s.notifier.Notify(ctx, event, occurrence, lead); err != nil {
				configslog.Log.Error("reminder dispatch failed", zap.Uint("event_id", event.ID), zap.Error(err))
			}
		}
	}
}

// nextOccurrence resolves the occurrence a reminder should anchor on: the
// plain start for one-off events, the next recurrence instance otherwise.
func (s *ReminderService) nextOccurrence(event *models.Event, now time.Time) (time.Time, bool) {
	start := event.Detail.StartsAt.UTC()
	if event.Detail.Recurrence == "" {
		if start.Before(now) {
			return time.Time{}, false
		}
		return start, true
	}
	return recurrence.NextAfter(event.Detail.Recurrence, start, now)
}

// leadMinutes merges the event's reminder list with the signup sheet's
// hours-before set, deduplicated.
func (s *ReminderService) leadMinutes(event *models.Event) []int {
	seen := map[int]struct{}{}
	var out []int
	add := func(minutes int) {
		if minutes <= 0 {
			return
		}
		if _, ok := seen[minutes]; ok {
			return
		}
		seen[minutes] = struct{}{}
		out = append(out, minutes)
	}
	for _, m := range event.Detail.Reminders.Minutes() {
		add(m)
	}
	if form := event.Detail.SignupForm; form != nil {
		for _, h := range form.Settings.AutoRemindersHoursBefore {
			add(h * 60)
		}
	}
	return out
}

func (s *ReminderService) markSent(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sent[key]; ok {
		return false
	}
	s.sent[key] = struct{}{}
	return true
}
