package worker

import (
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// StartNotificationWorker registers lifecycle notification handlers.
func StartNotificationWorker(notifier *service.LifecycleNotifier) {
	if notifier == nil {
		return
	}
	notifier.RegisterHandlers()
}
