//go:build windows

package notify

import (
	"fmt"

	toast "git.sr.ht/~jackmordaunt/go-toast"
)

const toastAppID = "PuzzleReminder"

// Toast shows a native Windows toast notification
type Toast struct {
	appID string
}

// NewToast creates a Windows toast backend
func NewToast(appID string) *Toast {
	if appID == "" {
		appID = toastAppID
	}
	return &Toast{appID: appID}
}

// Name implements Backend
func (t *Toast) Name() string {
	return "toast"
}

// Show implements Backend
func (t *Toast) Show(n Notification) error {
	notification := toast.Notification{
		AppID: t.appID,
		Title: n.Title,
		Body:  PlainText(n.Body),
		Icon:  n.Icon,
	}

	if err := notification.Push(); err != nil {
		return fmt.Errorf("failed to push toast: %w", err)
	}
	return nil
}

func platformBackends(_ Options) []Backend {
	return []Backend{NewToast(toastAppID)}
}
