package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/events"
	"github.com/spec-kit/it-manager/internal/repository/memory"
)

var fixedNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// recorder subscribes to every event type and keeps what it sees.
type recorder struct {
	mu   sync.Mutex
	seen []events.Event
}

func newRecorder() (events.Dispatcher, *recorder) {
	d := events.NewInMemoryDispatcher()
	r := &recorder{}
	for _, typ := range []events.EventType{
		events.EventDepartmentCreated,
		events.EventUserDepartmentChanged,
		events.EventLicenseExpirationChanged,
		events.EventLicenseExpiring,
		events.EventInkStockChanged,
		events.EventInkStockDepleted,
	} {
		d.Subscribe(typ, func(_ context.Context, e events.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.seen = append(r.seen, e)
			return nil
		})
	}
	return d, r
}

func (r *recorder) ofType(typ events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.seen {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	departments *memory.DepartmentRepository
	users       *memory.UserRepository
	licenses    *memory.LicenseRepository
	printers    *memory.PrinterRepository
	events      *recorder

	departmentSvc *DepartmentService
	userSvc       *UserService
	licenseSvc    *LicenseService
	printerSvc    *PrinterService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dispatcher, rec := newRecorder()
	f := &fixture{
		departments: memory.NewDepartmentRepository(),
		users:       memory.NewUserRepository(),
		licenses:    memory.NewLicenseRepository(),
		printers:    memory.NewPrinterRepository(),
		events:      rec,
	}
	f.departmentSvc = NewDepartmentService(DepartmentDependencies{
		DepartmentRepo: f.departments,
		UserRepo:       f.users,
		Dispatcher:     dispatcher,
	})
	f.userSvc = NewUserService(UserDependencies{
		UserRepo:       f.users,
		DepartmentRepo: f.departments,
		Dispatcher:     dispatcher,
		BcryptCost:     4,
	})
	f.licenseSvc = NewLicenseService(LicenseDependencies{
		LicenseRepo:    f.licenses,
		DepartmentRepo: f.departments,
		Dispatcher:     dispatcher,
		Clock:          fixedClock,
	})
	f.printerSvc = NewPrinterService(PrinterDependencies{
		PrinterRepo: f.printers,
		HistoryRepo: f.printers,
		Dispatcher:  dispatcher,
		Clock:       fixedClock,
	})
	return f
}

func (f *fixture) department(t *testing.T, description string) *domain.Department {
	t.Helper()
	dept, err := f.departmentSvc.CreateDepartment(context.Background(), DepartmentInput{
		Description: description,
		Email:       "team@example.com",
	})
	require.NoError(t, err)
	return dept
}

func (f *fixture) user(t *testing.T, departmentID, email, badge string) *domain.User {
	t.Helper()
	user, err := f.userSvc.RegisterUser(context.Background(), UserInput{
		Name:         "Ana",
		Email:        email,
		Badge:        badge,
		DepartmentID: departmentID,
		Password:     "s3cret",
	})
	require.NoError(t, err)
	return user
}
