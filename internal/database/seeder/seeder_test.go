package seeder

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"profile-sync/internal/database/sqldb"
	"profile-sync/internal/domain/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/DATA-DOG/go-sqlmock.v1"
)

func expectProfileColumns(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.columns")).
		WithArgs("profiles").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).
			AddRow("id").AddRow("name").AddRow("surname").AddRow("user_id").AddRow("created_at"))
}

func TestProfilesSeeder_InsertsForNewOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectProfileColumns(mock)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM profiles")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO profiles")).
		WithArgs("id-1", "Ana", "Lee", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO profiles")).
		WithArgs("id-2", "Kids", "", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ids := []string{"id-1", "id-2"}
	s := ProfilesSeeder{
		Owner:    "u1",
		Profiles: []DemoProfile{{Name: "Ana", Surname: "Lee"}, {Name: "Kids"}},
		NewID: func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		},
	}

	require.NoError(t, Runner{Seeders: []Seeder{s}}.Run(context.Background(), sqldb.Wrap(db)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilesSeeder_SkipsOwnerWithProfiles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectProfileColumns(mock)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM profiles")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	require.NoError(t, ProfilesSeeder{Owner: "u1"}.Run(context.Background(), sqldb.Wrap(db)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilesSeeder_SchemaMismatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.columns")).
		WithArgs("profiles").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))

	err = Runner{Seeders: []Seeder{ProfilesSeeder{Owner: "u1"}}}.Run(context.Background(), sqldb.Wrap(db))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed profiles: schema mismatch")
}

func TestProfilesSeeder_RequiresOwner(t *testing.T) {
	err := ProfilesSeeder{Owner: " "}.Run(context.Background(), nil)
	assert.True(t, errors.Is(err, profile.ErrEmptyOwner))
}
