package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gokulraja-dev/infintree/internal/document/domain"
	"github.com/gokulraja-dev/infintree/internal/document/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Document{}, &domain.DocumentNode{}))

	repo := repository.NewRepository(db)
	return New(Params{DB: db, Log: zap.NewNop(), Repo: repo}), db
}

func mustCreate(t *testing.T, svc domain.Service, departmentID uuid.UUID, title string, parent *string) *domain.CreateResult {
	t.Helper()
	result, err := svc.Create(context.Background(), domain.CreateRequest{
		DepartmentID: departmentID,
		Title:        title,
		Content:      datatypes.JSONMap{"body": title + " body"},
		ParentNodeID: parent,
	})
	require.NoError(t, err)
	return result
}

func TestCreateRootAndChildPaths(t *testing.T) {
	svc, _ := newTestService(t)
	dept := uuid.New()

	root := mustCreate(t, svc, dept, "A", nil)
	assert.Equal(t, root.NodeID, root.Path)
	assert.Len(t, root.NodeID, 26)

	child := mustCreate(t, svc, dept, "B", &root.NodeID)
	assert.Equal(t, root.Path+domain.PathSeparator+child.NodeID, child.Path)

	grandchild := mustCreate(t, svc, dept, "C", &child.NodeID)
	assert.Equal(t, child.Path+domain.PathSeparator+grandchild.NodeID, grandchild.Path)
	assert.Len(t, strings.Split(grandchild.Path, domain.PathSeparator), 3)
}

func TestCreateRejectsUnknownParent(t *testing.T) {
	svc, _ := newTestService(t)

	missing := "01ARZ3NDEKTSV4RRFFQ69G5FAV"
	_, err := svc.Create(context.Background(), domain.CreateRequest{
		DepartmentID: uuid.New(),
		Title:        "orphan",
		ParentNodeID: &missing,
	})
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
}

func TestCreateRejectsCrossDepartmentParent(t *testing.T) {
	svc, _ := newTestService(t)

	deptA := uuid.New()
	deptB := uuid.New()
	parent := mustCreate(t, svc, deptA, "A", nil)

	_, err := svc.Create(context.Background(), domain.CreateRequest{
		DepartmentID: deptB,
		Title:        "stray",
		ParentNodeID: &parent.NodeID,
	})
	assert.ErrorIs(t, err, domain.ErrCrossDepartmentParent)
}

func TestGetDepthShapes(t *testing.T) {
	svc, _ := newTestService(t)
	dept := uuid.New()
	ctx := context.Background()

	a := mustCreate(t, svc, dept, "A", nil)
	b := mustCreate(t, svc, dept, "B", &a.NodeID)
	c := mustCreate(t, svc, dept, "C", &b.NodeID)

	// depth=0: the node alone.
	node, err := svc.Get(ctx, domain.GetRequest{DepartmentID: dept, NodeID: a.NodeID, Depth: domain.DepthZero})
	require.NoError(t, err)
	assert.Equal(t, "A", node.Title)
	assert.Empty(t, node.Children)

	// depth=1: exactly one child, grandchildren left empty.
	node, err = svc.Get(ctx, domain.GetRequest{DepartmentID: dept, NodeID: a.NodeID, Depth: domain.DepthOne})
	require.NoError(t, err)
	require.Len(t, node.Children, 1)
	assert.Equal(t, b.NodeID, node.Children[0].NodeID)
	assert.Empty(t, node.Children[0].Children)

	// depth=all: the full nested subtree.
	node, err = svc.Get(ctx, domain.GetRequest{DepartmentID: dept, NodeID: a.NodeID, Depth: domain.DepthAll})
	require.NoError(t, err)
	require.Len(t, node.Children, 1)
	require.Len(t, node.Children[0].Children, 1)
	assert.Equal(t, c.NodeID, node.Children[0].Children[0].NodeID)

	// Subtree reads work from any anchor, not only the root.
	node, err = svc.Get(ctx, domain.GetRequest{DepartmentID: dept, NodeID: b.NodeID, Depth: domain.DepthAll})
	require.NoError(t, err)
	assert.Equal(t, "B", node.Title)
	require.Len(t, node.Children, 1)
}

func TestGetRejectsInvalidDepth(t *testing.T) {
	svc, _ := newTestService(t)
	dept := uuid.New()
	a := mustCreate(t, svc, dept, "A", nil)

	_, err := svc.Get(context.Background(), domain.GetRequest{DepartmentID: dept, NodeID: a.NodeID, Depth: "2"})
	assert.ErrorIs(t, err, domain.ErrInvalidDepth)
}

func TestGetScopedToDepartment(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustCreate(t, svc, uuid.New(), "A", nil)

	_, err := svc.Get(context.Background(), domain.GetRequest{DepartmentID: uuid.New(), NodeID: a.NodeID, Depth: domain.DepthZero})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateTitleAndContent(t *testing.T) {
	svc, _ := newTestService(t)
	dept := uuid.New()
	ctx := context.Background()

	a := mustCreate(t, svc, dept, "A", nil)

	title := "Revised"
	nodeID, err := svc.Update(ctx, domain.UpdateRequest{
		DepartmentID: dept,
		NodeID:       a.NodeID,
		Title:        &title,
		Content:      datatypes.JSONMap{"body": "new body"},
	})
	require.NoError(t, err)
	assert.Equal(t, a.NodeID, nodeID)

	node, err := svc.Get(ctx, domain.GetRequest{DepartmentID: dept, NodeID: a.NodeID, Depth: domain.DepthZero})
	require.NoError(t, err)
	assert.Equal(t, "Revised", node.Title)
	assert.Equal(t, "new body", node.Content["body"])
}

func TestSearchTextIsDeterministic(t *testing.T) {
	content := datatypes.JSONMap{
		"zeta":  "Last",
		"alpha": "First",
		"count": float64(3),
		"mid":   "Middle",
	}

	want := "title first middle last"
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, searchText("Title", content))
	}
}

func TestDeleteCascadesToSubtreeOnly(t *testing.T) {
	svc, db := newTestService(t)
	dept := uuid.New()
	ctx := context.Background()

	a := mustCreate(t, svc, dept, "A", nil)
	b := mustCreate(t, svc, dept, "B", &a.NodeID)
	sibling := mustCreate(t, svc, dept, "S", nil)

	require.NoError(t, svc.Delete(ctx, dept, a.NodeID))

	_, err := svc.Get(ctx, domain.GetRequest{DepartmentID: dept, NodeID: a.NodeID, Depth: domain.DepthZero})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Get(ctx, domain.GetRequest{DepartmentID: dept, NodeID: b.NodeID, Depth: domain.DepthZero})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The sibling tree is untouched.
	node, err := svc.Get(ctx, domain.GetRequest{DepartmentID: dept, NodeID: sibling.NodeID, Depth: domain.DepthZero})
	require.NoError(t, err)
	assert.Equal(t, "S", node.Title)

	// The whole cascade shares one deletion timestamp.
	var times []time.Time
	require.NoError(t, db.Model(&domain.DocumentNode{}).
		Where("node_id IN ?", []string{a.NodeID, b.NodeID}).
		Pluck("deleted_at", &times).Error)
	require.Len(t, times, 2)
	assert.Equal(t, times[0], times[1])
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	dept := uuid.New()
	ctx := context.Background()

	a := mustCreate(t, svc, dept, "A", nil)
	b := mustCreate(t, svc, dept, "B", &a.NodeID)

	require.NoError(t, svc.Delete(ctx, dept, b.NodeID))

	var first []time.Time
	require.NoError(t, db.Model(&domain.DocumentNode{}).
		Where("node_id = ?", b.NodeID).
		Pluck("deleted_at", &first).Error)

	// Deleting the ancestor later must not re-stamp the already deleted child.
	require.NoError(t, svc.Delete(ctx, dept, a.NodeID))

	var second []time.Time
	require.NoError(t, db.Model(&domain.DocumentNode{}).
		Where("node_id = ?", b.NodeID).
		Pluck("deleted_at", &second).Error)
	assert.Equal(t, first, second)
}

func TestDeletedChildExcludedFromReads(t *testing.T) {
	svc, _ := newTestService(t)
	dept := uuid.New()
	ctx := context.Background()

	a := mustCreate(t, svc, dept, "A", nil)
	b := mustCreate(t, svc, dept, "B", &a.NodeID)
	mustCreate(t, svc, dept, "C", &a.NodeID)

	require.NoError(t, svc.Delete(ctx, dept, b.NodeID))

	node, err := svc.Get(ctx, domain.GetRequest{DepartmentID: dept, NodeID: a.NodeID, Depth: domain.DepthOne})
	require.NoError(t, err)
	require.Len(t, node.Children, 1)
	assert.Equal(t, "C", node.Children[0].Title)

	// A deleted node cannot be used as a parent again.
	_, err = svc.Create(ctx, domain.CreateRequest{
		DepartmentID: dept,
		Title:        "late",
		ParentNodeID: &b.NodeID,
	})
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
}
