// Package alerts delivers notifications to the operator's configured
// channels (Discord webhook, SMTP) through shoutrrr. Delivery is fire
// and forget: failures are logged, never propagated to the caller.
package alerts

import (
	"strings"

	"github.com/containrrr/shoutrrr"

	"github.com/flarewatcher/flarewatcher/internal/models"
)

type Erroer interface {
	Error(s string)
}

type SecretDecrypter interface {
	Decrypt(value string) (decrypted string, err error)
}

type Dispatcher struct {
	secrets SecretDecrypter
	logger  Erroer
	timeNow func() string
}

func New(secrets SecretDecrypter, logger Erroer, timeNow func() string) *Dispatcher {
	return &Dispatcher{
		secrets: secrets,
		logger:  logger,
		timeNow: timeNow,
	}
}

// Payload is one notification to deliver.
type Payload struct {
	Title      string
	Body       string
	PreviousIP string
	CurrentIP  string
}

// Notify renders the operator's templates and sends the payload to
// every enabled channel. Each channel failure is logged and swallowed.
func (d *Dispatcher) Notify(settings models.OperatorSettings, payload Payload) {
	if settings.SMTPPass != "" {
		// The password is stored encrypted at rest.
		pass, err := d.secrets.Decrypt(settings.SMTPPass)
		if err != nil {
			d.logger.Error("decrypting SMTP password: " + err.Error())
			settings.SMTPEnabled = false
		} else {
			settings.SMTPPass = pass
		}
	}

	urls, templates := channelURLs(settings)
	if len(urls) == 0 {
		return
	}

	for i, url := range urls {
		message := render(templates[i], payload, d.timeNow())

		sender, err := shoutrrr.CreateSender(url)
		if err != nil {
			d.logger.Error("creating alert sender: " + err.Error())
			continue
		}

		serviceName := strings.Split(url, ":")[0]
		for _, err := range sender.Send(message, nil) {
			if err != nil {
				d.logger.Error(serviceName + ": " + err.Error())
			}
		}
	}
}
