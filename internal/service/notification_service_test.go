package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type notificationFixture struct {
	*lifecycleFixture
	breaches *fakeBreachRepo
	notify   *NotificationService
}

func newNotificationFixture() *notificationFixture {
	base := newLifecycleFixture()
	breaches := newFakeBreachRepo()
	sla := config.SLAConfig{AcceptSLAMin: 30, CompleteSLAMin: 60, NearDueMin: 15}

	notify := NewNotificationService(sla, NotificationDependencies{
		UserRepo:   base.users,
		EventRepo:  base.events,
		Views:      NewViewService(base.items, base.events),
		BreachRepo: breaches,
	})

	return &notificationFixture{lifecycleFixture: base, breaches: breaches, notify: notify}
}

// setDue rewrites the deadline of a stage event so the scan sees it as near or
// overdue without waiting on the clock.
func (fx *notificationFixture) setDue(refID string, eventType domain.EventType, dueAt time.Time) {
	for _, event := range fx.events.events {
		if event.RefID == refID && event.EventType == eventType {
			due := dueAt
			event.DueAt = &due
			return
		}
	}
	panic("no such event: " + refID + "/" + string(eventType))
}

func TestNearDeadline(t *testing.T) {
	ctx := context.Background()

	t.Run("admin sees accept deadlines inside the window", func(t *testing.T) {
		fx := newNotificationFixture()
		near, err := fx.service.Create(ctx, domain.KindTicket, "Near", fx.employee)
		require.NoError(t, err)
		far, err := fx.service.Create(ctx, domain.KindTicket, "Far", fx.employee)
		require.NoError(t, err)

		fx.setDue(near.RefID, domain.EventCreated, time.Now().Add(5*time.Minute))
		fx.setDue(far.RefID, domain.EventCreated, time.Now().Add(2*time.Hour))

		role, items, err := fx.notify.NearDeadline(ctx, fx.admin)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, role)
		require.Len(t, items, 1)
		assert.Equal(t, near.RefID, items[0].RefID)
		assert.Equal(t, domain.AcceptDeadline, items[0].DeadlineType)
		assert.False(t, items[0].IsOverdue)
		assert.Equal(t, 5, items[0].MinutesLeft)
	})

	t.Run("accepted item drops its accept deadline and gains a complete one", func(t *testing.T) {
		fx := newNotificationFixture()
		item, err := fx.service.Create(ctx, domain.KindAsset, "Laptop", fx.employee)
		require.NoError(t, err)
		fx.setDue(item.RefID, domain.EventCreated, time.Now().Add(5*time.Minute))

		_, err = fx.service.Accept(ctx, domain.KindAsset, item.RefID, fx.resolver)
		require.NoError(t, err)
		fx.setDue(item.RefID, domain.EventAccepted, time.Now().Add(10*time.Minute))

		role, items, err := fx.notify.NearDeadline(ctx, fx.admin)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, role)
		require.Len(t, items, 1)
		assert.Equal(t, domain.CompleteDeadline, items[0].DeadlineType)
	})

	t.Run("completed item never notifies", func(t *testing.T) {
		fx := newNotificationFixture()
		item, err := fx.service.Create(ctx, domain.KindTicket, "Done", fx.employee)
		require.NoError(t, err)
		_, err = fx.service.Accept(ctx, domain.KindTicket, item.RefID, fx.resolver)
		require.NoError(t, err)
		_, err = fx.service.Complete(ctx, domain.KindTicket, item.RefID, fx.resolver)
		require.NoError(t, err)
		fx.setDue(item.RefID, domain.EventAccepted, time.Now().Add(5*time.Minute))

		_, items, err := fx.notify.NearDeadline(ctx, fx.admin)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("resolver sees only items they accepted", func(t *testing.T) {
		fx := newNotificationFixture()
		otherResolver := fx.users.add(domain.RoleResolver)

		mine, err := fx.service.Create(ctx, domain.KindTicket, "Mine", fx.employee)
		require.NoError(t, err)
		theirs, err := fx.service.Create(ctx, domain.KindTicket, "Theirs", fx.employee)
		require.NoError(t, err)

		_, err = fx.service.Accept(ctx, domain.KindTicket, mine.RefID, fx.resolver)
		require.NoError(t, err)
		_, err = fx.service.Accept(ctx, domain.KindTicket, theirs.RefID, otherResolver)
		require.NoError(t, err)

		fx.setDue(mine.RefID, domain.EventAccepted, time.Now().Add(5*time.Minute))
		fx.setDue(theirs.RefID, domain.EventAccepted, time.Now().Add(5*time.Minute))

		role, items, err := fx.notify.NearDeadline(ctx, fx.resolver)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleResolver, role)
		require.Len(t, items, 1)
		assert.Equal(t, mine.RefID, items[0].RefID)
	})

	t.Run("employee gets an empty list", func(t *testing.T) {
		fx := newNotificationFixture()
		item, err := fx.service.Create(ctx, domain.KindTicket, "Pending", fx.employee)
		require.NoError(t, err)
		fx.setDue(item.RefID, domain.EventCreated, time.Now().Add(5*time.Minute))

		role, items, err := fx.notify.NearDeadline(ctx, fx.employee)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleEmployee, role)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("never writes breaches", func(t *testing.T) {
		fx := newNotificationFixture()
		item, err := fx.service.Create(ctx, domain.KindTicket, "Near", fx.employee)
		require.NoError(t, err)
		fx.setDue(item.RefID, domain.EventCreated, time.Now().Add(5*time.Minute))

		_, _, err = fx.notify.NearDeadline(ctx, fx.admin)
		require.NoError(t, err)
		assert.Zero(t, fx.breaches.upsertCalls)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		fx := newNotificationFixture()
		_, _, err := fx.notify.NearDeadline(ctx, "33333333-3333-3333-3333-333333333333")
		assert.Equal(t, 404, httpStatus(t, err))
	})

	t.Run("results are sorted by deadline ascending", func(t *testing.T) {
		fx := newNotificationFixture()
		later, err := fx.service.Create(ctx, domain.KindTicket, "Later", fx.employee)
		require.NoError(t, err)
		sooner, err := fx.service.Create(ctx, domain.KindTicket, "Sooner", fx.employee)
		require.NoError(t, err)

		fx.setDue(later.RefID, domain.EventCreated, time.Now().Add(12*time.Minute))
		fx.setDue(sooner.RefID, domain.EventCreated, time.Now().Add(3*time.Minute))

		_, items, err := fx.notify.NearDeadline(ctx, fx.admin)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, sooner.RefID, items[0].RefID)
		assert.Equal(t, later.RefID, items[1].RefID)
	})
}

func TestTimeEnded(t *testing.T) {
	ctx := context.Background()

	t.Run("overdue accept deadline records an accept breach", func(t *testing.T) {
		fx := newNotificationFixture()
		item, err := fx.service.Create(ctx, domain.KindTicket, "Stale", fx.employee)
		require.NoError(t, err)
		fx.setDue(item.RefID, domain.EventCreated, time.Now().Add(-10*time.Minute))

		role, items, err := fx.notify.TimeEnded(ctx, fx.admin)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, role)
		require.Len(t, items, 1)
		assert.Equal(t, domain.AcceptDeadline, items[0].DeadlineType)
		assert.True(t, items[0].IsOverdue)
		assert.Negative(t, items[0].MinutesLeft)

		assert.Len(t, fx.breaches.acceptRows, 1)
		assert.Empty(t, fx.breaches.completeRows)
	})

	t.Run("overdue complete deadline records a complete breach", func(t *testing.T) {
		fx := newNotificationFixture()
		item, err := fx.service.Create(ctx, domain.KindAsset, "Stuck", fx.employee)
		require.NoError(t, err)
		_, err = fx.service.Accept(ctx, domain.KindAsset, item.RefID, fx.resolver)
		require.NoError(t, err)
		fx.setDue(item.RefID, domain.EventAccepted, time.Now().Add(-5*time.Minute))

		_, items, err := fx.notify.TimeEnded(ctx, fx.resolver)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, domain.CompleteDeadline, items[0].DeadlineType)

		assert.Len(t, fx.breaches.completeRows, 1)
		assert.Empty(t, fx.breaches.acceptRows)
	})

	t.Run("repeated reads keep a single breach row", func(t *testing.T) {
		fx := newNotificationFixture()
		item, err := fx.service.Create(ctx, domain.KindTicket, "Stale", fx.employee)
		require.NoError(t, err)
		fx.setDue(item.RefID, domain.EventCreated, time.Now().Add(-10*time.Minute))

		for i := 0; i < 3; i++ {
			_, items, err := fx.notify.TimeEnded(ctx, fx.admin)
			require.NoError(t, err)
			require.Len(t, items, 1)
		}

		assert.Len(t, fx.breaches.acceptRows, 1)
		assert.Equal(t, 3, fx.breaches.upsertCalls)
	})

	t.Run("future deadlines are excluded", func(t *testing.T) {
		fx := newNotificationFixture()
		item, err := fx.service.Create(ctx, domain.KindTicket, "Healthy", fx.employee)
		require.NoError(t, err)
		fx.setDue(item.RefID, domain.EventCreated, time.Now().Add(20*time.Minute))

		_, items, err := fx.notify.TimeEnded(ctx, fx.admin)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Zero(t, fx.breaches.upsertCalls)
	})

	t.Run("employee overdue read writes nothing", func(t *testing.T) {
		fx := newNotificationFixture()
		item, err := fx.service.Create(ctx, domain.KindTicket, "Stale", fx.employee)
		require.NoError(t, err)
		fx.setDue(item.RefID, domain.EventCreated, time.Now().Add(-10*time.Minute))

		role, items, err := fx.notify.TimeEnded(ctx, fx.employee)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleEmployee, role)
		assert.Empty(t, items)
		assert.Zero(t, fx.breaches.upsertCalls)
	})
}
