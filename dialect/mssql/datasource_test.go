package mssql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/tabula"
	"github.com/syssam/tabula/dialect"
)

func TestDataSourceSQL(t *testing.T) {
	drv, err := NewDriver()
	require.NoError(t, err)

	tests := []struct {
		name string
		ds   *DataSource
		want string
	}{
		{
			name: "table",
			ds:   NewDataSource(drv, "dbo.users").SetDefaultSorting(dialect.Asc("id")),
			want: "SELECT * FROM [dbo].[users] ORDER BY [id] ASC",
		},
		{
			name: "query",
			ds: NewDataSource(drv, "SELECT * FROM users WHERE deleted = 0").
				Select("id", "name").
				SetDefaultSorting(dialect.Asc("id")),
			want: "SELECT [id], [name] FROM (SELECT * FROM users WHERE deleted = 0) t ORDER BY [id] ASC",
		},
		{
			name: "conditions",
			ds: NewDataSource(drv, "users").
				Where("active = 1", "age > 18 OR guardian IS NOT NULL").
				SetDefaultSorting(dialect.Asc("id")),
			want: "SELECT * FROM [users] WHERE (active = 1) AND (age > 18 OR guardian IS NOT NULL) ORDER BY [id] ASC",
		},
		{
			name: "merged_sorting",
			ds: NewDataSource(drv, "users").
				OrderBy(dialect.Desc("id"), dialect.Asc("name")).
				SetDefaultSorting(dialect.Asc("id"), dialect.Asc("created")),
			want: "SELECT * FROM [users] ORDER BY [id] DESC, [name] ASC, [created] ASC",
		},
		{
			name: "limit",
			ds: NewDataSource(drv, "users").
				SetDefaultSorting(dialect.Asc("id")).
				ApplyLimit(10, 0),
			want: "SELECT TOP 10 * FROM (SELECT * FROM [users]) t ORDER BY [id] ASC",
		},
		{
			name: "page",
			ds: NewDataSource(drv, "users").
				OrderBy(dialect.By("name", "d")).
				SetDefaultSorting(dialect.Asc("id")).
				ApplyLimit(10, 30),
			want: "SELECT TOP 10 * FROM (" +
				"SELECT TOP 10 * FROM (" +
				"SELECT TOP 40 * FROM (SELECT * FROM [users]) t ORDER BY [name] DESC, [id] ASC" +
				") t ORDER BY [name] ASC, [id] DESC" +
				") t ORDER BY [name] DESC, [id] ASC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.ds.SQL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataSourceErrors(t *testing.T) {
	drv, err := NewDriver()
	require.NoError(t, err)

	ds := NewDataSource(drv, "users").OrderBy(dialect.Asc("name"))
	_, err = ds.SQL()
	assert.ErrorIs(t, err, tabula.ErrNoDefaultSorting)
	assert.Empty(t, ds.DefaultSorting())
	_, err = ds.Fetch(context.Background())
	assert.ErrorIs(t, err, tabula.ErrNoDefaultSorting)

	// Offsets without a limit cannot be expressed.
	_, err = ds.SetDefaultSorting(dialect.Asc("id")).ApplyLimit(dialect.NoLimit, 5).SQL()
	assert.True(t, tabula.IsUnsupportedPaging(err))
	assert.Equal(t, dialect.OrderSpec{dialect.Asc("id")}, ds.DefaultSorting())
}

func TestDataSourceFetch(t *testing.T) {
	ctx := context.Background()
	drv, mock := mockDriver(t, nil)

	ds := NewDataSource(drv, "users").
		Where("active = 1").
		SetDefaultSorting(dialect.Asc("id")).
		ApplyLimit(2, 2)

	mock.ExpectQuery("SELECT COUNT(*) FROM [users] WHERE (active = 1)").
		WillReturnRows(sqlmock.NewRows([]string{""}).AddRow(int64(5)))
	count, err := ds.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	query, err := ds.SQL()
	require.NoError(t, err)
	mock.ExpectQuery(query).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)).AddRow(int64(4)))
	res, err := ds.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.RowCount())

	mock.ExpectQuery("SELECT COUNT(*) FROM [users] WHERE (active = 1)").
		WillReturnRows(sqlmock.NewRows([]string{""}).AddRow("7"))
	count, err = ds.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	require.NoError(t, mock.ExpectationsWereMet())
}
