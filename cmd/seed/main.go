package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// Demo seeder. Clears every table, creates demo users and work items in all
// three lifecycle stages, adds discussion messages, then rewrites due times so
// both notification modes return items right away.

const demoPassword = "Pass@1234"

var ticketTypes = []string{
	"Laptop Not Working",
	"Printer Offline",
	"Network Connectivity Issue",
	"VPN Not Connecting",
	"System Crash",
	"Password Reset",
	"Email Access Problem",
	"Software Installation Request",
}

var assetTypes = []string{
	"New Laptop Request",
	"Monitor Request",
	"Keyboard Replacement",
	"Mouse Replacement",
	"RAM Upgrade",
	"Docking Station Request",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if pg.PoolHandle() == nil {
		logger.Fatal("POSTGRES_DSN is required to seed")
	}

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	s := newSeeder(cfg, pg.PoolHandle(), logger)
	if err := s.run(ctx); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}

type seeder struct {
	pool   *pgxpool.Pool
	logger *zap.Logger

	auth          *service.AuthService
	items         *service.WorkItemService
	discussions   *service.DiscussionService
	notifications *service.NotificationService
}

func newSeeder(cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) *seeder {
	userRepo := repository.NewUserRepository(pool)
	itemRepo := repository.NewWorkItemRepository(pool)
	eventRepo := repository.NewWorkEventRepository(pool)
	discussionRepo := repository.NewDiscussionRepository(pool)
	breachRepo := repository.NewBreachRepository(pool)

	viewService := service.NewViewService(itemRepo, eventRepo)

	return &seeder{
		pool:   pool,
		logger: logger,
		auth:   service.NewAuthService(cfg.Auth, userRepo, nil),
		items: service.NewWorkItemService(cfg.SLA, service.WorkItemDependencies{
			UserRepo:     userRepo,
			WorkItemRepo: itemRepo,
			EventRepo:    eventRepo,
			Views:        viewService,
		}),
		discussions: service.NewDiscussionService(userRepo, discussionRepo, nil),
		notifications: service.NewNotificationService(cfg.SLA, service.NotificationDependencies{
			UserRepo:   userRepo,
			EventRepo:  eventRepo,
			Views:      viewService,
			BreachRepo: breachRepo,
		}),
	}
}

func (s *seeder) run(ctx context.Context) error {
	if err := s.clear(ctx); err != nil {
		return fmt.Errorf("clear tables: %w", err)
	}

	adminID, resolverIDs, employeeIDs, err := s.createUsers(ctx)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}

	// Tickets: 18 total, one third per stage. Assets: 12 total, same split.
	ticketIDs, err := s.createItems(ctx, domain.KindTicket, ticketTypes, 18, 6, 12, resolverIDs, employeeIDs, 0)
	if err != nil {
		return fmt.Errorf("create tickets: %w", err)
	}
	assetIDs, err := s.createItems(ctx, domain.KindAsset, assetTypes, 12, 4, 8, resolverIDs, employeeIDs, 2)
	if err != nil {
		return fmt.Errorf("create assets: %w", err)
	}

	if err := s.addDiscussions(ctx, ticketIDs, assetIDs, resolverIDs[0], employeeIDs); err != nil {
		return fmt.Errorf("add discussions: %w", err)
	}

	if err := s.tuneDueTimes(ctx, ticketIDs, assetIDs); err != nil {
		return fmt.Errorf("tune due times: %w", err)
	}

	if err := s.demoScans(ctx, adminID, resolverIDs[0]); err != nil {
		return fmt.Errorf("notification demo: %w", err)
	}

	s.printCheatSheet(adminID, resolverIDs, employeeIDs[0], ticketIDs, assetIDs)
	return nil
}

func (s *seeder) clear(ctx context.Context) error {
	s.logger.Info("clearing existing data")
	const query = `
        TRUNCATE users, work_items, work_events, work_event_actors,
                 discussions, discussion_messages,
                 sla_accept_breaches, sla_complete_breaches
        RESTART IDENTITY CASCADE`
	_, err := s.pool.Exec(ctx, query)
	return err
}

func (s *seeder) createUsers(ctx context.Context) (string, []string, []string, error) {
	s.logger.Info("creating users")

	admin, err := s.auth.Register(ctx, "Admin Demo", "admin@test.com", demoPassword, domain.RoleAdmin)
	if err != nil {
		return "", nil, nil, err
	}

	resolverIDs := make([]string, 0, 2)
	for i := 1; i <= 2; i++ {
		resolver, err := s.auth.Register(ctx,
			fmt.Sprintf("Resolver %d", i),
			fmt.Sprintf("resolver%d@test.com", i),
			demoPassword, domain.RoleResolver)
		if err != nil {
			return "", nil, nil, err
		}
		resolverIDs = append(resolverIDs, resolver.ID)
	}

	employeeIDs := make([]string, 0, 6)
	for i := 1; i <= 6; i++ {
		employee, err := s.auth.Register(ctx,
			fmt.Sprintf("Employee %d", i),
			fmt.Sprintf("employee%d@test.com", i),
			demoPassword, domain.RoleEmployee)
		if err != nil {
			return "", nil, nil, err
		}
		employeeIDs = append(employeeIDs, employee.ID)
	}

	return admin.ID, resolverIDs, employeeIDs, nil
}

// createItems raises total items of the kind; items past acceptFrom get
// accepted and items past completeFrom get completed, resolvers alternating.
func (s *seeder) createItems(ctx context.Context, kind domain.WorkKind, requestTypes []string, total, acceptFrom, completeFrom int, resolverIDs, employeeIDs []string, employeeOffset int) ([]string, error) {
	s.logger.Info("creating work items", zap.String("kind", string(kind)), zap.Int("count", total))

	ids := make([]string, 0, total)
	for i := 0; i < total; i++ {
		raisedBy := employeeIDs[(i+employeeOffset)%len(employeeIDs)]
		view, err := s.items.Create(ctx, kind, requestTypes[i%len(requestTypes)], raisedBy)
		if err != nil {
			return nil, err
		}
		ids = append(ids, view.RefID)

		resolver := resolverIDs[i%len(resolverIDs)]
		if i >= acceptFrom {
			if _, err := s.items.Accept(ctx, kind, view.RefID, resolver); err != nil {
				return nil, err
			}
		}
		if i >= completeFrom {
			if _, err := s.items.Complete(ctx, kind, view.RefID, resolver); err != nil {
				return nil, err
			}
		}
	}
	return ids, nil
}

func (s *seeder) addDiscussions(ctx context.Context, ticketIDs, assetIDs []string, resolverID string, employeeIDs []string) error {
	s.logger.Info("adding discussion messages")

	for i := 0; i < 6; i++ {
		ticketID := ticketIDs[i]
		employeeID := employeeIDs[i%len(employeeIDs)]

		if _, err := s.discussions.AddMessage(ctx, domain.KindTicket, ticketID, employeeID,
			fmt.Sprintf("Employee: I need help on ticket %s (msg %d)", ticketID, i+1)); err != nil {
			return err
		}
		if _, err := s.discussions.AddMessage(ctx, domain.KindTicket, ticketID, resolverID,
			fmt.Sprintf("Resolver: Acknowledged ticket %s, will check (msg %d)", ticketID, i+1)); err != nil {
			return err
		}
	}

	for i := 0; i < 4; i++ {
		assetID := assetIDs[i]
		employeeID := employeeIDs[(i+1)%len(employeeIDs)]

		if _, err := s.discussions.AddMessage(ctx, domain.KindAsset, assetID, employeeID,
			fmt.Sprintf("Employee: Please process asset request %s (msg %d)", assetID, i+1)); err != nil {
			return err
		}
	}
	return nil
}

// tuneDueTimes rewrites stage deadlines so the demo is stable: some items are
// overdue (due 30s ago), the rest fall inside the near window (due in 40s).
func (s *seeder) tuneDueTimes(ctx context.Context, ticketIDs, assetIDs []string) error {
	s.logger.Info("tuning due times for the notification demo")

	now := time.Now()
	overdue := now.Add(-30 * time.Second)
	near := now.Add(40 * time.Second)

	// Pending tickets (0..5): accept deadline, first 3 overdue.
	for i := 0; i < 6; i++ {
		dueAt := near
		if i < 3 {
			dueAt = overdue
		}
		if err := s.setDue(ctx, domain.KindTicket, ticketIDs[i], domain.EventCreated, now.Add(-10*time.Minute), dueAt); err != nil {
			return err
		}
	}

	// Accepted-only tickets (6..11): complete deadline, first 3 overdue.
	for i := 6; i < 12; i++ {
		dueAt := near
		if i < 9 {
			dueAt = overdue
		}
		if err := s.setDue(ctx, domain.KindTicket, ticketIDs[i], domain.EventAccepted, now.Add(-8*time.Minute), dueAt); err != nil {
			return err
		}
	}

	// Pending assets (0..3): accept deadline, first 2 overdue.
	for i := 0; i < 4; i++ {
		dueAt := near
		if i < 2 {
			dueAt = overdue
		}
		if err := s.setDue(ctx, domain.KindAsset, assetIDs[i], domain.EventCreated, now.Add(-12*time.Minute), dueAt); err != nil {
			return err
		}
	}

	// Accepted-only assets (4..7): complete deadline, first 2 overdue.
	for i := 4; i < 8; i++ {
		dueAt := near
		if i < 6 {
			dueAt = overdue
		}
		if err := s.setDue(ctx, domain.KindAsset, assetIDs[i], domain.EventAccepted, now.Add(-7*time.Minute), dueAt); err != nil {
			return err
		}
	}

	return nil
}

func (s *seeder) setDue(ctx context.Context, kind domain.WorkKind, refID string, eventType domain.EventType, occurredAt, dueAt time.Time) error {
	const query = `
        UPDATE work_events SET occurred_at=$1, due_at=$2
        WHERE kind=$3 AND ref_id=$4 AND event_type=$5`
	_, err := s.pool.Exec(ctx, query, occurredAt, dueAt, kind, refID, eventType)
	return err
}

// demoScans runs both notification modes so the overdue scan writes its breach
// rows and the log shows what each role would see.
func (s *seeder) demoScans(ctx context.Context, adminID, resolverID string) error {
	for _, userID := range []string{adminID, resolverID} {
		role, nearItems, err := s.notifications.NearDeadline(ctx, userID)
		if err != nil {
			return err
		}
		_, overdueItems, err := s.notifications.TimeEnded(ctx, userID)
		if err != nil {
			return err
		}
		s.logger.Info("notification demo",
			zap.String("role", string(role)),
			zap.Int("near_deadline", len(nearItems)),
			zap.Int("overdue", len(overdueItems)))
	}
	return nil
}

func (s *seeder) printCheatSheet(adminID string, resolverIDs []string, employeeID string, ticketIDs, assetIDs []string) {
	fmt.Println("==================== DEMO CHEAT SHEET ====================")
	fmt.Println("ADMIN:          ", adminID)
	fmt.Println("RESOLVER1:      ", resolverIDs[0])
	fmt.Println("RESOLVER2:      ", resolverIDs[1])
	fmt.Println("EMPLOYEE sample:", employeeID)
	fmt.Println("Password:       ", demoPassword)
	fmt.Println()
	fmt.Println("Ticket pending:  ", ticketIDs[0])
	fmt.Println("Ticket accepted: ", ticketIDs[6])
	fmt.Println("Ticket completed:", ticketIDs[12])
	fmt.Println("Asset pending:   ", assetIDs[0])
	fmt.Println("Asset accepted:  ", assetIDs[4])
	fmt.Println("Asset completed: ", assetIDs[8])
	fmt.Println()
	fmt.Println("Quick URLs:")
	fmt.Println("GET  /tickets")
	fmt.Println("GET  /tickets/status/pending")
	fmt.Printf("GET  /tickets/raised/%s\n", employeeID)
	fmt.Printf("GET  /tickets/solved/%s\n", resolverIDs[0])
	fmt.Printf("GET  /notifications/deadline/%s\n", adminID)
	fmt.Printf("GET  /notifications/ended/%s\n", adminID)
	fmt.Printf("GET  /discussion/ticket/%s\n", ticketIDs[0])
	fmt.Println("==========================================================")
}
