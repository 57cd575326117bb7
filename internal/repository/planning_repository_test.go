package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plbureau/labplanner-api/internal/models"
)

func TestPlanningRepositorySaveReplacesSameDay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM plannings WHERE date = $1")).
		WithArgs("2026-09-14").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO plannings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO planning_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO planning_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	planning := &models.Planning{Date: date, Outcome: "optimal", SolverStatus: "OPTIMAL"}
	entries := []models.PlanningEntry{
		{RequestID: "q1", TeacherName: "Durand", Level: "2nde", Subject: "chemistry", RoomName: "C12", StartMinutes: 540, DurationMinutes: 85, Assigned: true},
		{RequestID: "q2", TeacherName: "Martin", Level: "2nde", Subject: "physics", StartMinutes: 540, DurationMinutes: 85},
	}

	require.NoError(t, repo.Save(context.Background(), planning, entries))
	assert.NotEmpty(t, planning.ID)
	assert.Equal(t, planning.ID, entries[0].PlanningID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRepositorySaveRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM plannings WHERE date = $1")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	planning := &models.Planning{Date: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)}
	err := repo.Save(context.Background(), planning, nil)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRepositoryListEntries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	rows := sqlmock.NewRows([]string{"id", "planning_id", "request_id", "teacher_name", "level", "title", "subject", "room_name", "start_minutes", "duration_minutes", "assigned", "created_at"}).
		AddRow("e1", "p1", "q1", "Durand", "2nde", "", "chemistry", "C12", 540, 85, true, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM planning_entries WHERE planning_id = $1 ORDER BY start_minutes, teacher_name")).
		WithArgs("p1").
		WillReturnRows(rows)

	entries, err := repo.ListEntries(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "C12", entries[0].RoomName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
