package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rc397/FlavorMap/internal/repo"
)

var spotColumns = []string{"id", "name", "lat", "lng", "cuisine", "emoji", "note", "created_at"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestPgSpotRepo_LoadAll_OrdersBySeq(t *testing.T) {
	mock := newMockPool(t)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, name, lat, lng, cuisine, emoji, note, created_at\s+FROM spots\s+ORDER BY seq ASC`).
		WillReturnRows(pgxmock.NewRows(spotColumns).
			AddRow("s_1", "Taco Stand", 19.43, -99.13, "Mexican", "🌮", "", created).
			AddRow("s_2", "Ramen Bar", 35.68, 139.69, "Japanese", "🍜", "late night", created.Add(time.Minute)))

	got, err := repo.NewPostgresSpotRepo(mock).LoadAll(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s_1", got[0].ID)
	assert.Equal(t, "Ramen Bar", got[1].Name)
	assert.Equal(t, 139.69, got[1].Lng)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgSpotRepo_LoadAll_EmptyIsNonNil(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(`FROM spots`).WillReturnRows(pgxmock.NewRows(spotColumns))

	got, err := repo.NewPostgresSpotRepo(mock).LoadAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPgSpotRepo_LoadAll_QueryError(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(`FROM spots`).WillReturnError(errors.New("connection reset"))

	_, err := repo.NewPostgresSpotRepo(mock).LoadAll(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "repo.SpotRepo.LoadAll")
}

func TestPgSpotRepo_Append_InsertsAllColumns(t *testing.T) {
	mock := newMockPool(t)
	s := spotFixture("s_ins", "Curry House")
	mock.ExpectExec(`INSERT INTO spots`).
		WithArgs(s.ID, s.Name, s.Lat, s.Lng, s.Cuisine, s.Emoji, s.Note, s.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.NewPostgresSpotRepo(mock).Append(context.Background(), s)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgSpotRepo_Append_Error(t *testing.T) {
	mock := newMockPool(t)
	arg := pgxmock.AnyArg()
	mock.ExpectExec(`INSERT INTO spots`).
		WithArgs(arg, arg, arg, arg, arg, arg, arg, arg).
		WillReturnError(errors.New("disk full"))

	err := repo.NewPostgresSpotRepo(mock).Append(context.Background(), spotFixture("s_err", "x"))

	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}
