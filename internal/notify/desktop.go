package notify

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"
)

// Desktop shows OS-native toast notifications.
type Desktop struct{}

func NewDesktop() *Desktop { return &Desktop{} }

func (d *Desktop) Dispatch(ctx context.Context, ev Event) error {
	title, body := render(ev)
	return beeep.Notify(title, body, "")
}

func render(ev Event) (title, body string) {
	name := ev.Monitor.DisplayName()
	switch ev.Kind {
	case KindMonitorUp:
		return "Monitor UP", fmt.Sprintf("%s is reachable again", name)
	case KindMonitorDown:
		return "Monitor DOWN", fmt.Sprintf("%s is not responding", name)
	case KindSSLValid:
		return "Certificate OK", fmt.Sprintf("certificate for %s is valid again", name)
	case KindSSLExpired:
		return "Certificate EXPIRED", fmt.Sprintf("certificate for %s is expired or invalid", name)
	case KindSSLExpiring:
		return "Certificate expiring", fmt.Sprintf("certificate for %s expires in %d days", name, ev.DaysRemaining)
	}
	return "UptimeKit", name
}
