package service

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"parkhub/internal/entities"
)

// WhatsAppDispatcher delivers reservation notifications over Twilio's
// WhatsApp channel.
type WhatsAppDispatcher struct {
	client *twilio.RestClient
	from   string
}

// NewWhatsAppDispatcherFromEnv builds a dispatcher from TWILIO_ACCOUNT_SID,
// TWILIO_AUTH_TOKEN and TWILIO_WHATSAPP_FROM. It returns nil when any of them
// is missing so callers can fall back to a log-only dispatcher.
func NewWhatsAppDispatcherFromEnv() *WhatsAppDispatcher {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_WHATSAPP_FROM")
	if accountSid == "" || authToken == "" || from == "" {
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	return &WhatsAppDispatcher{client: client, from: from}
}

func (d *WhatsAppDispatcher) Send(event entities.NotificationEvent) error {
	if event.Contact == "" {
		log.Printf("No contact number for %s, skipping %s notification", event.Username, event.Kind)
		return nil
	}
	if !strings.HasPrefix(event.Contact, "+") {
		log.Printf("Contact number %q is not in E.164 format, delivery may fail", event.Contact)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo("whatsapp:" + event.Contact)
	params.SetFrom("whatsapp:" + d.from)
	params.SetBody(MessageBody(event))

	resp, err := d.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("sending WhatsApp message to %s: %w", event.Contact, err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("WhatsApp message %s sent to %s", *resp.Sid, event.Contact)
	}
	return nil
}

// MessageBody renders the outbound text for an event.
func MessageBody(event entities.NotificationEvent) string {
	switch event.Kind {
	case entities.NotifyBookingConfirmed:
		return fmt.Sprintf("Hi %s! Your spot %d at %s is booked from %s. Drive safe!",
			event.Username, event.SpotID, event.LotName, event.StartTime.Format("2006-01-02 15:04:05"))
	case entities.NotifySpotReleased:
		return fmt.Sprintf("Hi %s! Spot %d at %s has been released. Duration: %.2f hours, total: ₹%.2f. See you again!",
			event.Username, event.SpotID, event.LotName, event.DurationHours, event.Cost)
	case entities.NotifyDailyReminder:
		return fmt.Sprintf("Hi %s! We miss you. %d parking lots have spots available right now, book one today!",
			event.Username, event.AvailableLots)
	case entities.NotifyWeeklySummary:
		return fmt.Sprintf("Hi %s! Your week: %d reservations, %.2f hours parked, ₹%.2f spent. Thanks for parking with us!",
			event.Username, event.Reservations, event.TotalHours, event.TotalCost)
	}
	return fmt.Sprintf("Hi %s! You have a new parking update.", event.Username)
}

// LogDispatcher writes rendered notifications to the process log. It stands in
// for the WhatsApp channel when Twilio credentials are not configured.
type LogDispatcher struct{}

func (LogDispatcher) Send(event entities.NotificationEvent) error {
	log.Printf("[notify:%s] to=%s %s", event.Kind, event.Contact, MessageBody(event))
	return nil
}
