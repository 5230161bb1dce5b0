package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"inventory/internal/core/entity"
	"inventory/internal/core/id"
)

type stockRow struct {
	entity.BaseEntity
	entity.Versioned
	Name  string   `db:"name"`
	Stock int64    `db:"current_stock"`
	Tags  []string `db:"-"`
	note  string   `db:"note"`
}

type auditedRow struct {
	*entity.BaseEntity
	Name string `db:"name"`
}

func TestColumns_EmbeddedFieldsInOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"id", "created_at", "version", "updated_at", "name", "current_stock"},
		Columns[stockRow]())
	assert.Equal(t, Columns[stockRow](), Columns[*stockRow]())
	assert.Empty(t, Columns[int]())
}

func TestValues(t *testing.T) {
	now := time.Now().UTC()
	row := &stockRow{
		BaseEntity: entity.BaseEntity{ID: id.New(), CreatedAt: now},
		Versioned:  entity.Versioned{Version: 3, UpdatedAt: now},
		Name:       "Widget",
		Stock:      7,
		Tags:       []string{"ignored"},
		note:       "unexported",
	}

	all := Values(row, nil)
	assert.Len(t, all, 6)
	assert.Equal(t, row.ID, all["id"])
	assert.Equal(t, 3, all["version"])
	assert.Equal(t, int64(7), all["current_stock"])
	assert.NotContains(t, all, "note")

	some := Values(row, []string{"name", "current_stock", "missing"})
	assert.Equal(t, map[string]any{"name": "Widget", "current_stock": int64(7)}, some)
}

func TestValues_EdgeCases(t *testing.T) {
	assert.Nil(t, Values(42, nil))
	assert.Nil(t, Values((*stockRow)(nil), nil))

	// nil embedded pointer contributes no columns
	assert.Equal(t, map[string]any{"name": "x"}, Values(auditedRow{Name: "x"}, nil))
}
