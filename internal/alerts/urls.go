package alerts

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/flarewatcher/flarewatcher/internal/models"
)

// channelURLs maps the operator's alert settings to shoutrrr service
// URLs, paired with the message template to use for each channel.
func channelURLs(settings models.OperatorSettings) (urls, templates []string) {
	if settings.DiscordEnabled && settings.DiscordWebhookURL != "" {
		discordURL, err := discordWebhookToShoutrrr(settings.DiscordWebhookURL)
		if err == nil {
			urls = append(urls, discordURL)
			template := settings.DiscordTemplate
			if strings.TrimSpace(template) == "" {
				template = DefaultDiscordTemplate
			}
			templates = append(templates, template)
		}
	}

	if settings.SMTPEnabled && settings.SMTPHost != "" && settings.SMTPTo != "" {
		urls = append(urls, smtpToShoutrrr(settings))
		template := settings.SMTPTemplate
		if strings.TrimSpace(template) == "" {
			template = DefaultSMTPTemplate
		}
		templates = append(templates, template)
	}

	return urls, templates
}

// discordWebhookToShoutrrr converts a Discord webhook URL of the form
// https://discord.com/api/webhooks/<id>/<token> to shoutrrr's
// discord://<token>@<id> form.
func discordWebhookToShoutrrr(webhookURL string) (shoutrrrURL string, err error) {
	parsed, err := url.Parse(webhookURL)
	if err != nil {
		return "", fmt.Errorf("parsing webhook URL: %w", err)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	const webhookPathParts = 4 // api/webhooks/<id>/<token>
	if len(parts) != webhookPathParts || parts[0] != "api" || parts[1] != "webhooks" {
		return "", fmt.Errorf("%w: %s", ErrWebhookURLNotValid, webhookURL)
	}

	id, token := parts[2], parts[3]
	return "discord://" + token + "@" + id, nil
}

func smtpToShoutrrr(settings models.OperatorSettings) (shoutrrrURL string) {
	port := settings.SMTPPort
	if port == 0 {
		port = 587
	}

	u := url.URL{
		Scheme: "smtp",
		Host:   fmt.Sprintf("%s:%d", settings.SMTPHost, port),
	}
	if settings.SMTPUser != "" {
		u.User = url.UserPassword(settings.SMTPUser, settings.SMTPPass)
	}

	values := url.Values{}
	values.Set("from", settings.SMTPFrom)
	values.Set("to", settings.SMTPTo)
	u.RawQuery = values.Encode()

	return u.String()
}
