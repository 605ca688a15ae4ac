package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// Beeep delivers notifications through gen2brain/beeep, which picks
// whatever the OS offers (osascript, notify-send, toast)
type Beeep struct {
	appName string
}

// NewBeeep creates a beeep backend
func NewBeeep(appName string) *Beeep {
	if appName == "" {
		appName = defaultAppName
	}
	return &Beeep{appName: appName}
}

// Name implements Backend
func (b *Beeep) Name() string {
	return "beeep"
}

// Show implements Backend
func (b *Beeep) Show(n Notification) error {
	beeep.AppName = b.appName
	if err := beeep.Notify(n.Title, PlainText(n.Body), n.Icon); err != nil {
		return fmt.Errorf("beeep notify failed: %w", err)
	}
	return nil
}
