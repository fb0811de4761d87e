package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkhub/internal/db"
	"parkhub/internal/entities"
	"parkhub/internal/service"
)

type stubReportStore struct {
	reminderUsers []db.User
	plainUsers    []db.User
	availableLots int
	activity      map[int]*entities.ActivitySummary
}

func (s *stubReportStore) UsersNeedingReminder(time.Time) ([]db.User, error) {
	return s.reminderUsers, nil
}

func (s *stubReportStore) PlainUsers() ([]db.User, error) {
	return s.plainUsers, nil
}

func (s *stubReportStore) CountLotsWithAvailability() (int, error) {
	return s.availableLots, nil
}

func (s *stubReportStore) ActivitySince(userID int, _ time.Time) (*entities.ActivitySummary, error) {
	if summary, ok := s.activity[userID]; ok {
		return summary, nil
	}
	return &entities.ActivitySummary{MostUsedLot: "N/A"}, nil
}

type captureMail struct {
	sent []string
}

func (m *captureMail) SendHTML(toEmail, _, _, _, _ string) error {
	m.sent = append(m.sent, toEmail)
	return nil
}

func TestDailyReminders_TargetsInactiveUsers(t *testing.T) {
	store := &stubReportStore{
		reminderUsers: []db.User{
			{ID: 1, Username: "anand", PhoneNumber: "+911111111111"},
			{ID: 2, Username: "priya", PhoneNumber: "+912222222222"},
		},
		availableLots: 3,
	}
	dispatcher := &captureDispatcher{}
	jobs := service.NewJobService(store, dispatcher, nil)

	require.NoError(t, jobs.SendDailyReminders())

	events := dispatcher.sent()
	require.Len(t, events, 2)
	for _, event := range events {
		assert.Equal(t, entities.NotifyDailyReminder, event.Kind)
		assert.Equal(t, 3, event.AvailableLots)
	}
}

func TestWeeklySummaries_SkipIdleUsers(t *testing.T) {
	store := &stubReportStore{
		plainUsers: []db.User{
			{ID: 1, Username: "anand", PhoneNumber: "+911111111111"},
			{ID: 2, Username: "priya", PhoneNumber: "+912222222222"},
		},
		activity: map[int]*entities.ActivitySummary{
			1: {Reservations: 4, TotalHours: 9.5, TotalCost: 475.0, MostUsedLot: "Central Mall"},
		},
	}
	dispatcher := &captureDispatcher{}
	jobs := service.NewJobService(store, dispatcher, nil)

	require.NoError(t, jobs.SendWeeklySummaries())

	events := dispatcher.sent()
	require.Len(t, events, 1, "users with no activity get no summary")
	assert.Equal(t, entities.NotifyWeeklySummary, events[0].Kind)
	assert.Equal(t, "anand", events[0].Username)
	assert.Equal(t, 4, events[0].Reservations)
	assert.InDelta(t, 9.5, events[0].TotalHours, 0.001)
	assert.InDelta(t, 475.0, events[0].TotalCost, 0.001)
}

func TestMonthlyReports_EmailsEveryUser(t *testing.T) {
	store := &stubReportStore{
		plainUsers: []db.User{
			{ID: 1, Username: "anand", Email: "anand@example.com"},
			{ID: 2, Username: "priya", Email: "priya@example.com"},
		},
		activity: map[int]*entities.ActivitySummary{
			1: {Reservations: 2, TotalCost: 120.0, MostUsedLot: "Airport"},
		},
	}
	mail := &captureMail{}
	jobs := service.NewJobService(store, &captureDispatcher{}, mail)

	require.NoError(t, jobs.SendMonthlyReports())
	assert.Equal(t, []string{"anand@example.com", "priya@example.com"}, mail.sent)
}

func TestMonthlyReports_NoSenderConfigured(t *testing.T) {
	jobs := service.NewJobService(&stubReportStore{}, nil, nil)
	require.NoError(t, jobs.SendMonthlyReports())
}

func TestNotificationTemplates(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	body := service.MessageBody(entities.NotificationEvent{
		Kind: entities.NotifyBookingConfirmed, Username: "anand", SpotID: 7,
		LotName: "Central Mall", StartTime: start,
	})
	assert.Contains(t, body, "spot 7")
	assert.Contains(t, body, "Central Mall")
	assert.Contains(t, body, "2025-06-01 09:30:00")

	body = service.MessageBody(entities.NotificationEvent{
		Kind: entities.NotifySpotReleased, Username: "anand", SpotID: 7,
		LotName: "Central Mall", DurationHours: 1.5, Cost: 75.0,
	})
	assert.Contains(t, body, "1.50 hours")
	assert.Contains(t, body, "₹75.00")
}
