// Package notify shows desktop notifications for track changes and playback
// errors.
package notify

// Urgency levels understood by freedesktop notification servers.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification is one desktop notification. Timeout is in milliseconds:
// -1 leaves it to the server, 0 never expires.
type Notification struct {
	Title      string
	Body       string
	Icon       string // file path or icon name
	Category   string // e.g. "x-gnome.music"
	Timeout    int32
	ReplacesID uint32 // replace an earlier notification instead of stacking
	Urgency    Urgency
	Transient  bool // not kept in the notification history
}

// Notifier sends desktop notifications. Notify returns the server-assigned
// ID, 0 when notifications are unavailable.
type Notifier interface {
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// Discard drops every notification. New falls back to it when there is no
// notification server.
type Discard struct{}

func (Discard) Notify(Notification) (uint32, error) { return 0, nil }

func (Discard) Close(uint32) error { return nil }

// desktopEntry is the .desktop file name servers use to group notifications.
func desktopEntry(app string) string {
	out := make([]rune, 0, len(app))
	for _, r := range app {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
		case r == ' ':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
