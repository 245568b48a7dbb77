package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohaib59/ecommerce-store/internal/model"
)

func uptr(v uint64) *uint64 { return &v }

// forest:
//
//	1
//	├── 2
//	│   └── 4
//	└── 3
//	5 (separate root)
func testForest() map[uint64]*uint64 {
	return map[uint64]*uint64{
		1: nil,
		2: uptr(1),
		3: uptr(1),
		4: uptr(2),
		5: nil,
	}
}

func TestWouldCycle(t *testing.T) {
	parents := testForest()

	cases := []struct {
		name      string
		id        uint64
		newParent *uint64
		want      bool
	}{
		{"to root is fine", 4, nil, false},
		{"reparent under sibling", 2, uptr(3), false},
		{"reparent under other root", 2, uptr(5), false},
		{"direct child as parent", 2, uptr(4), true},
		{"own descendant deeper down", 1, uptr(4), true},
		{"self as parent", 2, uptr(2), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, wouldCycle(parents, tc.id, tc.newParent))
		})
	}
}

func TestWouldCycleTerminatesOnCorruptData(t *testing.T) {
	// 10 and 11 already point at each other; the walk must still stop.
	parents := map[uint64]*uint64{
		10: uptr(11),
		11: uptr(10),
	}
	assert.False(t, wouldCycle(parents, 99, uptr(10)))
}

func TestSubtreeIDs(t *testing.T) {
	parents := testForest()

	assert.ElementsMatch(t, []uint64{1, 2, 3, 4}, subtreeIDs(parents, 1))
	assert.ElementsMatch(t, []uint64{2, 4}, subtreeIDs(parents, 2))
	assert.Equal(t, []uint64{3}, subtreeIDs(parents, 3))
	assert.Equal(t, []uint64{5}, subtreeIDs(parents, 5))
}

// Update scans the tree with FOR UPDATE inside its transaction, so a
// reparent that would close a cycle is rejected and rolled back before
// any write, and concurrent reparents cannot each read the old tree.
func TestUpdateLocksTreeAndRejectsCycle(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewCategoryRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, parent_id FROM categories FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id"}).
			AddRow(1, nil).
			AddRow(2, 1))
	mock.ExpectRollback()

	c := &model.Category{ID: 1, Name: "Electronics", Slug: "electronics", ParentID: uptr(2), IsActive: true}
	require.ErrorIs(t, repo.Update(context.Background(), c), ErrCycle)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubtreeIDsParentsBeforeChildren(t *testing.T) {
	// Delete walks the result in reverse, so every node must appear
	// before its own children.
	out := subtreeIDs(testForest(), 1)
	pos := make(map[uint64]int, len(out))
	for i, id := range out {
		pos[id] = i
	}
	assert.Less(t, pos[1], pos[2])
	assert.Less(t, pos[1], pos[3])
	assert.Less(t, pos[2], pos[4])
}
