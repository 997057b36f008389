package service

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"serenity/internal/adapter/database/memory"
	"serenity/internal/core/domain"
	"serenity/internal/core/port"
	"serenity/internal/core/util"
)

type TodoServiceTestSuite struct {
	suite.Suite
	Service     *TodoService
	TodoRepo    port.TodoRepository
	HistoryRepo port.HistoryRepository
	Now         time.Time
}

func (s *TodoServiceTestSuite) SetupTest() {
	db := memory.New()

	s.TodoRepo = memory.NewTodoRepository(db)
	s.HistoryRepo = memory.NewHistoryRepository(db)
	s.Service = NewTodoService(s.TodoRepo, s.HistoryRepo)

	s.Now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.Service.now = func() time.Time { return s.Now }
}

func TestTodoServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoServiceTestSuite))
}

func (s *TodoServiceTestSuite) create(text string) domain.Todo {
	todo, err := s.Service.Create(context.Background(), domain.Todo{UserID: "u1", Text: text})
	Expect(err).To(BeNil())

	return todo
}

func (s *TodoServiceTestSuite) TestCreate_AssignsIDAndDefaults() {
	todo := s.create("  Buy milk ")

	Expect(todo.ID).ToNot(BeEmpty())
	Expect(todo.Text).To(Equal("Buy milk"))
	Expect(todo.Priority).To(Equal(domain.PriorityMedium))
	Expect(todo.Category).To(Equal(domain.DefaultCategory))
	Expect(todo.CreatedAt).To(Equal(s.Now))
	Expect(todo.Completed).To(BeFalse())
}

func (s *TodoServiceTestSuite) TestCreate_RejectsBlankText() {
	_, err := s.Service.Create(context.Background(), domain.Todo{UserID: "u1", Text: "   "})

	assert.ErrorIs(s.T(), err, domain.ErrEmptyText)
}

func (s *TodoServiceTestSuite) TestUpdate_CompletionRecordsHistoryOnce() {
	todo := s.create("Call mom")
	done := true
	undone := false

	s.Now = s.Now.Add(5 * time.Second)
	_, err := s.Service.Update(context.Background(), "u1", todo.ID, domain.TodoPatch{Completed: &done})
	Expect(err).To(BeNil())

	_, err = s.Service.Update(context.Background(), "u1", todo.ID, domain.TodoPatch{Completed: &undone})
	Expect(err).To(BeNil())

	_, err = s.Service.Update(context.Background(), "u1", todo.ID, domain.TodoPatch{Completed: &done})
	Expect(err).To(BeNil())

	entries, _ := s.HistoryRepo.ListByUser(context.Background(), "u1")
	Expect(entries).To(HaveLen(1))
	Expect(entries[0].OriginalTodoID).To(Equal(todo.ID))
	Expect(entries[0].TimeToComplete).To(Equal(int64(5000)))
}

func (s *TodoServiceTestSuite) TestUpdate_OtherUsersTodoIsNotFound() {
	todo := s.create("Private")
	done := true

	_, err := s.Service.Update(context.Background(), "u2", todo.ID, domain.TodoPatch{Completed: &done})

	assert.ErrorIs(s.T(), err, domain.ErrTodoNotFound)
}

func (s *TodoServiceTestSuite) TestDelete_CompletedTodoGetsHistory() {
	todo := s.create("Water plants")
	done := true

	_, _ = s.Service.Update(context.Background(), "u1", todo.ID, domain.TodoPatch{Completed: &done})
	Expect(s.Service.Delete(context.Background(), "u1", todo.ID)).To(Succeed())

	entries, _ := s.HistoryRepo.ListByUser(context.Background(), "u1")
	Expect(entries).To(HaveLen(1))

	other := s.create("Never completed")
	Expect(s.Service.Delete(context.Background(), "u1", other.ID)).To(Succeed())

	entries, _ = s.HistoryRepo.ListByUser(context.Background(), "u1")
	Expect(entries).To(HaveLen(1))
}

func (s *TodoServiceTestSuite) TestDelete_Missing() {
	err := s.Service.Delete(context.Background(), "u1", "missing")

	assert.ErrorIs(s.T(), err, domain.ErrTodoNotFound)
}

func (s *TodoServiceTestSuite) TestStats() {
	first := s.create("one")
	s.create("two")
	done := true
	high := domain.PriorityHigh

	_, _ = s.Service.Update(context.Background(), "u1", first.ID, domain.TodoPatch{Completed: &done, Priority: &high})

	stats, err := s.Service.Stats(context.Background(), "u1")

	Expect(err).To(BeNil())
	Expect(stats.Total).To(Equal(2))
	Expect(stats.Completed).To(Equal(1))
	Expect(stats.CompletionRate).To(Equal(50))
	Expect(stats.PriorityStats).To(Equal(domain.PriorityCount{Medium: 1}))
}

func (s *TodoServiceTestSuite) TestHistory_Paginates() {
	s.T().Setenv("CURSOR_SECRET_KEY", "secret")
	done := true

	for _, text := range []string{"a", "b", "c"} {
		todo := s.create(text)
		s.Now = s.Now.Add(time.Minute)
		_, _ = s.Service.Update(context.Background(), "u1", todo.ID, domain.TodoPatch{Completed: &done})
	}

	page, err := s.Service.History(context.Background(), "u1", 2, "")
	Expect(err).To(BeNil())
	Expect(page.Size).To(Equal(2))
	Expect(page.Data[0].Text).To(Equal("c"))
	Expect(page.Pagination.HasNext).To(BeTrue())

	next, err := s.Service.History(context.Background(), "u1", 2, page.Pagination.NextCursor)
	Expect(err).To(BeNil())
	Expect(next.Size).To(Equal(1))
	Expect(next.Data[0].Text).To(Equal("a"))
	Expect(next.Pagination.HasNext).To(BeFalse())

	_, err = s.Service.History(context.Background(), "u1", 2, "garbage")
	Expect(err).ToNot(BeNil())
}

func (s *TodoServiceTestSuite) TestHistory_RejectsCursorForUnknownEntry() {
	s.T().Setenv("CURSOR_SECRET_KEY", "secret")
	done := true

	todo := s.create("a")
	_, _ = s.Service.Update(context.Background(), "u1", todo.ID, domain.TodoPatch{Completed: &done})

	cursor := util.EncodeCursor(s.Now.Format(time.RFC3339Nano), "missing-entry")

	page, err := s.Service.History(context.Background(), "u1", 2, cursor)

	Expect(page).To(BeNil())
	Expect(errors.Is(err, util.ErrCursorUnknown)).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestHistoryStats() {
	todo := s.create("a")
	done := true

	s.Now = s.Now.Add(2 * time.Second)
	_, _ = s.Service.Update(context.Background(), "u1", todo.ID, domain.TodoPatch{Completed: &done})

	stats, err := s.Service.HistoryStats(context.Background(), "u1")

	Expect(err).To(BeNil())
	Expect(stats.Total).To(Equal(1))
	Expect(stats.Today).To(Equal(1))
	Expect(stats.AverageTimeToComplete).To(Equal(2000.0))
}
