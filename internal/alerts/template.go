package alerts

import (
	"errors"
	"strings"
)

var ErrWebhookURLNotValid = errors.New("webhook URL is not valid")

const DefaultDiscordTemplate = "**Network Alert: IP Address Change Detected**\n\n" +
	"**Status Update**\n" +
	"The monitoring system has detected a change in your external network configuration. " +
	"Your connection has been updated successfully.\n\n" +
	"**Attribute** | **Details**\n" +
	"**Status** | Active / Updated\n" +
	"**Previous IP** | {previousIp}\n" +
	"**Current IP** | {currentIp}\n" +
	"**Detection Time** | {timestamp}"

const DefaultSMTPTemplate = "{title}\n\n{message}\n\n" +
	"Previous IP: {previousIp}\nCurrent IP: {currentIp}\nTimestamp: {timestamp}"

// render substitutes the template placeholders with payload values.
// Empty IP fields render as "N/A" to match the notification templates.
func render(template string, payload Payload, timestamp string) (message string) {
	previousIP := payload.PreviousIP
	if previousIP == "" {
		previousIP = "N/A"
	}
	currentIP := payload.CurrentIP
	if currentIP == "" {
		currentIP = "N/A"
	}

	replacer := strings.NewReplacer(
		"{title}", payload.Title,
		"{message}", payload.Body,
		"{timestamp}", timestamp,
		"{previousIp}", previousIP,
		"{currentIp}", currentIP,
	)
	return replacer.Replace(template)
}
