package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"serenity/internal/adapter/database/memory"
	"serenity/internal/core/domain"
	"serenity/internal/core/port"
	factory "serenity/pkg/test/factory"
)

type RepositoryTestSuite struct {
	suite.Suite
	DB          *memory.DB
	TodoRepo    port.TodoRepository
	UserRepo    port.UserRepository
	HistoryRepo port.HistoryRepository
}

var ctx = context.Background()

func (s *RepositoryTestSuite) SetupTest() {
	s.DB = memory.New()
	s.TodoRepo = memory.NewTodoRepository(s.DB)
	s.UserRepo = memory.NewUserRepository(s.DB)
	s.HistoryRepo = memory.NewHistoryRepository(s.DB)
}

func TestRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) TestTodo_ListByUser_Empty() {
	todos, err := s.TodoRepo.ListByUser(ctx, "u1")

	Expect(err).To(BeNil())
	Expect(todos).To(BeEmpty())
}

func (s *RepositoryTestSuite) TestTodo_ListByUser_NewestFirstAndScoped() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s.TodoRepo.Create(ctx, factory.NewTodo(map[string]any{"ID": "old", "UserID": "u1", "CreatedAt": base}))
	s.TodoRepo.Create(ctx, factory.NewTodo(map[string]any{"ID": "new", "UserID": "u1", "CreatedAt": base.Add(time.Hour)}))
	s.TodoRepo.Create(ctx, factory.NewTodo(map[string]any{"ID": "other", "UserID": "u2", "CreatedAt": base}))

	todos, err := s.TodoRepo.ListByUser(ctx, "u1")

	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(2))
	Expect(todos[0].ID).To(Equal("new"))
	Expect(todos[1].ID).To(Equal("old"))
}

func (s *RepositoryTestSuite) TestTodo_UpdateAndDelete() {
	todo, _ := s.TodoRepo.Create(ctx, factory.NewTodo(map[string]any{"ID": "t1", "UserID": "u1"}))

	todo.Completed = true
	_, err := s.TodoRepo.Update(ctx, todo)
	Expect(err).To(BeNil())

	stored, _ := s.TodoRepo.GetByID(ctx, "t1")
	Expect(stored.Completed).To(BeTrue())

	deleted, err := s.TodoRepo.Delete(ctx, "t1")
	Expect(err).To(BeNil())
	Expect(deleted.ID).To(Equal("t1"))

	_, err = s.TodoRepo.GetByID(ctx, "t1")
	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}

func (s *RepositoryTestSuite) TestTodo_MissingIDs() {
	_, err := s.TodoRepo.Update(ctx, domain.Todo{ID: "missing"})
	Expect(err).To(MatchError(domain.ErrTodoNotFound))

	_, err = s.TodoRepo.Delete(ctx, "missing")
	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}

func (s *RepositoryTestSuite) TestUser_CreateRejectsDuplicateEmail() {
	_, err := s.UserRepo.Create(ctx, domain.User{ID: "u1", Email: "me@example.com"})
	Expect(err).To(BeNil())

	_, err = s.UserRepo.Create(ctx, domain.User{ID: "u2", Email: "ME@example.com"})
	Expect(err).To(MatchError(domain.ErrUserExists))

	user, err := s.UserRepo.GetByEmail(ctx, "Me@Example.com")
	Expect(err).To(BeNil())
	Expect(user.ID).To(Equal("u1"))
}

func (s *RepositoryTestSuite) TestUser_Update() {
	s.UserRepo.Create(ctx, domain.User{ID: "u1", Email: "me@example.com"})

	_, err := s.UserRepo.Update(ctx, domain.User{ID: "u1", Email: "me@example.com", Name: "Me"})
	Expect(err).To(BeNil())

	user, _ := s.UserRepo.GetByID(ctx, "u1")
	Expect(user.Name).To(Equal("Me"))

	_, err = s.UserRepo.Update(ctx, domain.User{ID: "nope"})
	Expect(err).To(MatchError(domain.ErrUserNotFound))
}

func (s *RepositoryTestSuite) TestHistory_RecordIsIdempotentPerTodo() {
	todo := factory.NewTodo(map[string]any{"ID": "t1", "UserID": "u1"})

	_, added, err := s.HistoryRepo.Record(ctx, todo, time.Now())
	Expect(err).To(BeNil())
	Expect(added).To(BeTrue())

	_, added, _ = s.HistoryRepo.Record(ctx, todo, time.Now())
	Expect(added).To(BeFalse())

	entries, _ := s.HistoryRepo.ListByUser(ctx, "u1")
	Expect(entries).To(HaveLen(1))

	others, _ := s.HistoryRepo.ListByUser(ctx, "u2")
	Expect(others).To(BeEmpty())
}

func (s *RepositoryTestSuite) TestHistory_ConcurrentRecordKeepsOneEntry() {
	todo := factory.NewTodo(map[string]any{"ID": "t1", "UserID": "u1"})

	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			s.HistoryRepo.Record(ctx, todo, time.Now())
		}()
	}

	wg.Wait()

	entries, _ := s.HistoryRepo.ListByUser(ctx, "u1")
	Expect(entries).To(HaveLen(1))
}
