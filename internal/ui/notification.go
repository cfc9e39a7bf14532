package ui

import (
	"os"
	"strings"
	"time"

	"github.com/fanctl/amdfan/internal/util"
)

// For a list of possible icons, see: https://specifications.freedesktop.org/icon-naming-spec/icon-naming-spec-latest.html
const (
	IconDialogError = "dialog-error"
	IconDialogInfo  = "dialog-information"
	IconDialogWarn  = "dialog-warning"

	UrgencyLow      = "low"
	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"
)

// notifications are sent on the shutdown path, so no command may block it for long
const notificationTimeout = 5 * time.Second

var notificationsEnabled = true

// SetNotificationsEnabled toggles desktop notifications sent via notify-send.
func SetNotificationsEnabled(enabled bool) {
	notificationsEnabled = enabled
}

func NotifyInfo(title, text string) {
	NotifySend(UrgencyLow, title, text, IconDialogInfo)
}

func NotifyWarn(title, text string) {
	NotifySend(UrgencyNormal, title, text, IconDialogWarn)
}

func NotifyError(title, text string) {
	NotifySend(UrgencyCritical, title, text, IconDialogError)
}

// ErrorAndNotify prints an error and sends a critical desktop notification with the same content.
func ErrorAndNotify(title, text string) {
	Error("%s: %s", title, text)
	NotifyError(title, text)
}

func NotifySend(urgency, title, text, icon string) {
	if !notificationsEnabled {
		return
	}

	display, exists := os.LookupEnv("DISPLAY")
	if !exists {
		Debug("Cannot send notification, missing env variable 'DISPLAY'")
		return
	}

	output, err := util.SafeCmdExecution("who", nil, notificationTimeout)
	if err != nil {
		Warning("Cannot send notification, unable to find user of display session: %v", err)
		return
	}
	lines := strings.Split(output, "\n")
	var user string
	for _, line := range lines {
		if strings.Contains(line, display) {
			user = strings.TrimSpace(strings.Fields(line)[0])
			break
		}
	}

	if len(user) <= 0 {
		Warning("Cannot send notification, unable to detect user of current display session")
		return
	}

	output, err = util.SafeCmdExecution("id", []string{"-u", user}, notificationTimeout)
	userIdString := strings.TrimSpace(output)
	if len(userIdString) <= 0 {
		Warning("Cannot send notification, unable to detect user id: %v", err)
		return
	}

	_, err = util.SafeCmdExecution("sudo", []string{"-u", user,
		"DISPLAY=" + display,
		"DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/" + userIdString + "/bus",
		"notify-send",
		"-a", "amdfan",
		"-u", urgency,
		"-i", icon,
		title, text,
	}, notificationTimeout)
	if err != nil {
		Error("Error sending notification: %v", err)
	}
}
