package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leadColumns() []string {
	return []string{"id", "org_id", "first_name", "last_name", "phone", "email", "attributes", "created_at"}
}

func TestLeadRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := &leadRepository{db: db}
	now := time.Now()

	t.Run("decodes attributes", func(t *testing.T) {
		rows := sqlmock.NewRows(leadColumns()).
			AddRow(100, 1, "Amina", "Okoro", "+254700000001", "amina@example.com", []byte(`{"advisor":"Joseph","plan":"gold"}`), now)

		mock.ExpectQuery(regexp.QuoteMeta("FROM leads")).
			WithArgs(100).
			WillReturnRows(rows)

		lead, err := repo.GetByID(context.Background(), 100)
		require.NoError(t, err)
		assert.Equal(t, "Amina Okoro", lead.FullName())
		assert.Equal(t, "gold", lead.Attributes["plan"])
		assert.Equal(t, "Joseph", lead.Attributes["advisor"])
	})

	t.Run("null attributes and names", func(t *testing.T) {
		rows := sqlmock.NewRows(leadColumns()).
			AddRow(101, 1, nil, nil, "+254700000002", "x@example.com", nil, now)

		mock.ExpectQuery(regexp.QuoteMeta("FROM leads")).
			WithArgs(101).
			WillReturnRows(rows)

		lead, err := repo.GetByID(context.Background(), 101)
		require.NoError(t, err)
		assert.Nil(t, lead.FirstName)
		assert.Empty(t, lead.Attributes)
		assert.Equal(t, "", lead.FullName())
	})

	t.Run("corrupt attributes", func(t *testing.T) {
		rows := sqlmock.NewRows(leadColumns()).
			AddRow(102, 1, nil, nil, "+254700000003", "y@example.com", []byte(`{not json`), now)

		mock.ExpectQuery(regexp.QuoteMeta("FROM leads")).
			WithArgs(102).
			WillReturnRows(rows)

		_, err := repo.GetByID(context.Background(), 102)
		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM leads")).
			WithArgs(999).
			WillReturnRows(sqlmock.NewRows(leadColumns()))

		_, err := repo.GetByID(context.Background(), 999)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
