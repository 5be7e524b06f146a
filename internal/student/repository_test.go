package student_test

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/electronicdiary/api-school/internal/audit"
	"github.com/electronicdiary/api-school/internal/models"
	"github.com/electronicdiary/api-school/internal/student"
	"github.com/electronicdiary/api-school/internal/teacher"
)

var birthDate = time.Date(2010, 9, 1, 0, 0, 0, 0, time.UTC)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&student.Student{},
		&teacher.Teacher{},
		&models.TeacherStudent{},
	))
	return db
}

func TestRepositoryRoundTrip(t *testing.T) {
	db := openDB(t)
	repo := student.NewRepository(audit.NewStore(zerolog.Nop()))

	s := student.Student{FullName: "Jane Roe", DateOfBirth: birthDate, ApplicationUserID: "user-1"}
	require.NoError(t, repo.Create(db, "admin", &s))
	require.NotZero(t, s.ID)

	got, err := repo.GetByID(db, s.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane Roe", got.FullName)
	require.Equal(t, "admin", got.CreatedBy)

	got.FullName = "Jane Doe"
	require.NoError(t, repo.Update(db, "admin", got))

	got, err = repo.GetByID(db, s.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", got.FullName)
	require.NotNil(t, got.ModifiedAt)
}

func TestRepositoryDeleteIsSoft(t *testing.T) {
	db := openDB(t)
	repo := student.NewRepository(audit.NewStore(zerolog.Nop()))

	s := student.Student{FullName: "Jane Roe", DateOfBirth: birthDate, ApplicationUserID: "user-1"}
	require.NoError(t, repo.Create(db, "admin", &s))
	require.NoError(t, repo.Delete(db, "admin", s.ID))

	_, err := repo.GetByID(db, s.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	all, err := repo.GetAll(db)
	require.NoError(t, err)
	require.Empty(t, all)

	// The row is still there, stamped, with its creation audit intact.
	archived, err := repo.GetByIDWithArchived(db, s.ID)
	require.NoError(t, err)
	require.NotNil(t, archived.DeletedAt)
	require.NotNil(t, archived.DeletedBy)
	require.Equal(t, "admin", *archived.DeletedBy)
	require.Equal(t, "admin", archived.CreatedBy)
}

func TestGetByTeacherUserID(t *testing.T) {
	db := openDB(t)
	store := audit.NewStore(zerolog.Nop())
	students := student.NewRepository(store)
	teachers := teacher.NewRepository(store)

	tch := teacher.Teacher{FullName: "John Doe", Subject: "Mathematics", ApplicationUserID: "teacher-1"}
	require.NoError(t, teachers.Create(db, "admin", &tch))

	linked := student.Student{FullName: "Jane Roe", DateOfBirth: birthDate, ApplicationUserID: "student-1"}
	unlinked := student.Student{FullName: "Jim Poe", DateOfBirth: birthDate, ApplicationUserID: "student-2"}
	require.NoError(t, students.Create(db, "admin", &linked))
	require.NoError(t, students.Create(db, "admin", &unlinked))

	link := models.TeacherStudent{TeacherID: tch.ID, StudentID: linked.ID}
	require.NoError(t, store.Create(db, "admin", &link))

	got, err := students.GetByTeacherUserID(db, "teacher-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Jane Roe", got[0].FullName)

	// A severed link drops the student from the roster.
	require.NoError(t, store.Delete(db, "admin", &models.TeacherStudent{}, link.ID))
	got, err = students.GetByTeacherUserID(db, "teacher-1")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestGetByTeacherUserIDUnknownTeacher(t *testing.T) {
	db := openDB(t)
	students := student.NewRepository(audit.NewStore(zerolog.Nop()))

	got, err := students.GetByTeacherUserID(db, "nobody")
	require.NoError(t, err)
	require.Empty(t, got)
}
