//go:build linux

package notify

import (
	"os"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHints(t *testing.T) {
	h := hints("Encore", Notification{Urgency: UrgencyCritical})
	assert.Equal(t, dbus.MakeVariant(byte(2)), h["urgency"])
	assert.Equal(t, dbus.MakeVariant("encore"), h["desktop-entry"])
	assert.NotContains(t, h, "category")
	assert.NotContains(t, h, "transient")

	h = hints("Encore", Notification{Category: "x-gnome.music", Transient: true})
	assert.Equal(t, dbus.MakeVariant("x-gnome.music"), h["category"])
	assert.Equal(t, dbus.MakeVariant(true), h["transient"])
}

func TestNotifyOnSessionBus(t *testing.T) {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		t.Skip("no D-Bus session available")
	}

	n, err := New("Encore Test")
	require.NoError(t, err)

	id, err := n.Notify(Notification{Title: "Encore Test", Body: "from a unit test", Timeout: 1000, Transient: true})
	if err != nil {
		t.Skipf("no notification server: %v", err)
	}
	assert.NotZero(t, id)
	assert.NoError(t, n.Close(id))
}
