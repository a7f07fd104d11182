package dto_test

import (
	"simaru/shared/dto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq with table",
			filter:    dto.Filter{Field: "id", Table: "rooms", Operator: dto.FilterOperatorEq, Value: "r1"},
			wantWhere: "rooms.id = :id",
			wantArgs:  map[string]any{"id": "r1"},
		},
		{
			name:      "not eq with arg name",
			filter:    dto.Filter{Field: "id", ArgName: "self", Operator: dto.FilterOperatorNotEq, Value: "u1"},
			wantWhere: "id != :self",
			wantArgs:  map[string]any{"self": "u1"},
		},
		{
			name:      "like escapes wildcards",
			filter:    dto.Filter{Field: "name", Operator: dto.FilterOperatorLike, Value: "50%_off"},
			wantWhere: "LOWER(name) LIKE LOWER(:name)",
			wantArgs:  map[string]any{"name": `%50\%\_off%`},
		},
		{
			name:      "in expands slices",
			filter:    dto.Filter{Field: "id", Operator: dto.FilterOperatorIn, Value: []string{"a", "b"}},
			wantWhere: "id IN (:id_0, :id_1)",
			wantArgs:  map[string]any{"id_0": "a", "id_1": "b"},
		},
		{
			name:      "in with empty slice matches nothing",
			filter:    dto.Filter{Field: "id", Operator: dto.FilterOperatorIn, Value: []string{}},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "in with scalar",
			filter:    dto.Filter{Field: "id", Operator: dto.FilterOperatorIn, Value: "a"},
			wantWhere: "id IN (:id)",
			wantArgs:  map[string]any{"id": "a"},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "id", Operator: "between", Value: 1},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	t.Run("nested groups", func(t *testing.T) {
		group := dto.FilterGroup{
			Operator: dto.FilterGroupOperatorAnd,
			Filters: []any{
				dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "active"},
				dto.FilterGroup{
					Operator: dto.FilterGroupOperatorOr,
					Filters: []any{
						dto.Filter{Field: "name", Operator: dto.FilterOperatorLike, Value: "lab"},
						dto.Filter{Field: "code", Operator: dto.FilterOperatorLike, Value: "lab"},
					},
				},
			},
		}

		where, args := group.GetWhereClause()

		assert.Equal(t, "(status = :status AND (LOWER(name) LIKE LOWER(:name) OR LOWER(code) LIKE LOWER(:code)))", where)
		assert.Len(t, args, 3)
	})

	t.Run("drops empty clauses and unknown entries", func(t *testing.T) {
		group := dto.FilterGroup{
			Filters: []any{
				dto.Filter{Field: "id", Operator: "between"},
				"not a filter",
				dto.Filter{Field: "id", Operator: dto.FilterOperatorEq, Value: "r1"},
			},
		}

		where, _ := group.GetWhereClause()

		assert.Equal(t, "(id = :id)", where)
	})

	t.Run("empty group", func(t *testing.T) {
		group := dto.FilterGroup{}

		where, args := group.GetWhereClause()

		assert.Empty(t, where)
		assert.Empty(t, args)
	})
}
