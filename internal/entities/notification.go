package entities

import "time"

type NotificationKind string

const (
	NotifyBookingConfirmed NotificationKind = "booking-confirmed"
	NotifySpotReleased     NotificationKind = "spot-released"
	NotifyDailyReminder    NotificationKind = "daily-reminder"
	NotifyWeeklySummary    NotificationKind = "weekly-summary"
)

// NotificationEvent is the payload handed to the outbound messaging channel
// after a reservation event has committed. The engine never waits on its
// delivery and never fails a request because of it.
type NotificationEvent struct {
	Kind          NotificationKind
	Contact       string // WhatsApp number, may be empty
	Username      string
	LotName       string
	SpotID        int
	StartTime     time.Time
	EndTime       *time.Time
	Cost          float64
	DurationHours float64

	// Digest fields, used by the scheduled jobs only.
	AvailableLots int
	Reservations  int
	TotalHours    float64
	TotalCost     float64
}
