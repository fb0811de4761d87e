package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"time"

	"parkhub/internal/db"
	"parkhub/internal/entities"
	"parkhub/internal/pricing"
)

// ReportStore serves the read-only queries behind the scheduled digests.
type ReportStore interface {
	UsersNeedingReminder(cutoff time.Time) ([]db.User, error)
	PlainUsers() ([]db.User, error)
	CountLotsWithAvailability() (int, error)
	ActivitySince(userID int, since time.Time) (*entities.ActivitySummary, error)
}

// JobService runs the cron-driven digests: daily reminders, weekly summaries
// over WhatsApp and the monthly HTML report over email.
type JobService struct {
	Store      ReportStore
	Dispatcher NotificationDispatcher
	Mail       EmailSender
}

func NewJobService(store ReportStore, dispatcher NotificationDispatcher, mail EmailSender) *JobService {
	return &JobService{Store: store, Dispatcher: dispatcher, Mail: mail}
}

// SendDailyReminders nudges users who have not booked in the last 24 hours.
func (s *JobService) SendDailyReminders() error {
	now := time.Now().UTC()
	users, err := s.Store.UsersNeedingReminder(now.Add(-24 * time.Hour))
	if err != nil {
		return fmt.Errorf("loading reminder recipients: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	available, err := s.Store.CountLotsWithAvailability()
	if err != nil {
		return fmt.Errorf("counting available lots: %w", err)
	}

	for _, user := range users {
		s.dispatch(entities.NotificationEvent{
			Kind:          entities.NotifyDailyReminder,
			Contact:       user.PhoneNumber,
			Username:      user.Username,
			AvailableLots: available,
		})
	}
	log.Printf("Daily reminders sent to %d users", len(users))
	return nil
}

// SendWeeklySummaries messages each user their activity over the past seven
// days. Users with no activity are skipped.
func (s *JobService) SendWeeklySummaries() error {
	now := time.Now().UTC()
	users, err := s.Store.PlainUsers()
	if err != nil {
		return fmt.Errorf("loading summary recipients: %w", err)
	}

	sent := 0
	for _, user := range users {
		summary, err := s.Store.ActivitySince(user.ID, now.Add(-7*24*time.Hour))
		if err != nil {
			log.Printf("Weekly summary for %s failed: %v", user.Username, err)
			continue
		}
		if summary.Reservations == 0 {
			continue
		}
		s.dispatch(entities.NotificationEvent{
			Kind:         entities.NotifyWeeklySummary,
			Contact:      user.PhoneNumber,
			Username:     user.Username,
			Reservations: summary.Reservations,
			TotalHours:   pricing.Round2(summary.TotalHours),
			TotalCost:    pricing.Round2(summary.TotalCost),
		})
		sent++
	}
	log.Printf("Weekly summaries sent to %d users", sent)
	return nil
}

var monthlyReportTmpl = template.Must(template.New("monthly").Parse(`
<html>
<body>
	<h2>Your monthly parking report</h2>
	<p>Hi {{.Username}},</p>
	<p>Here is your activity for the past month:</p>
	<ul>
		<li>Reservations: {{.Reservations}}</li>
		<li>Most used lot: {{.MostUsedLot}}</li>
		<li>Total spent: ₹{{printf "%.2f" .TotalCost}}</li>
	</ul>
	<p>Thanks for parking with us!</p>
</body>
</html>`))

type monthlyReportData struct {
	Username     string
	Reservations int
	MostUsedLot  string
	TotalCost    float64
}

// SendMonthlyReports emails every user an HTML summary of the previous month.
func (s *JobService) SendMonthlyReports() error {
	if s.Mail == nil {
		log.Println("Email sender not configured, skipping monthly reports")
		return nil
	}

	now := time.Now().UTC()
	monthStart := now.AddDate(0, -1, 0)
	users, err := s.Store.PlainUsers()
	if err != nil {
		return fmt.Errorf("loading report recipients: %w", err)
	}

	sent := 0
	for _, user := range users {
		summary, err := s.Store.ActivitySince(user.ID, monthStart)
		if err != nil {
			log.Printf("Monthly report for %s failed: %v", user.Username, err)
			continue
		}

		data := monthlyReportData{
			Username:     user.Username,
			Reservations: summary.Reservations,
			MostUsedLot:  summary.MostUsedLot,
			TotalCost:    pricing.Round2(summary.TotalCost),
		}
		var body bytes.Buffer
		if err := monthlyReportTmpl.Execute(&body, data); err != nil {
			log.Printf("Rendering monthly report for %s failed: %v", user.Username, err)
			continue
		}

		plain := fmt.Sprintf("Hi %s, your month: %d reservations, most used lot %s, total ₹%.2f.",
			data.Username, data.Reservations, data.MostUsedLot, data.TotalCost)
		if err := s.Mail.SendHTML(user.Email, user.Username, "Your monthly parking report", plain, body.String()); err != nil {
			log.Printf("Monthly report email to %s failed: %v", user.Email, err)
			continue
		}
		sent++
	}
	log.Printf("Monthly reports emailed to %d users", sent)
	return nil
}

// dispatch delivers digest events synchronously; jobs already run off the
// request path, so there is nothing to shield from latency.
func (s *JobService) dispatch(event entities.NotificationEvent) {
	if s.Dispatcher == nil {
		return
	}
	if err := s.Dispatcher.Send(event); err != nil {
		log.Printf("Digest %s to %s failed: %v", event.Kind, event.Username, err)
	}
}
