package service

import (
	"context"
	"crypto/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gokulraja-dev/infintree/internal/document/domain"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("document.service"),
		repo:    p.Repo,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// newNodeID returns a monotonically increasing ULID. Monotonic generation is
// what makes lexicographic path ordering coincide with creation order.
func (s *Service) newNodeID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.CreateResult, error) {
	nodeID := s.newNodeID()

	path := nodeID
	parentID := req.ParentNodeID
	if parentID != nil {
		parent, err := s.repo.ActiveNodeByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrParentNotFound
		}
		if parent.DepartmentID != req.DepartmentID {
			return nil, domain.ErrCrossDepartmentParent
		}
		path = parent.ChildPath(nodeID)
	}

	content := req.Content
	if content == nil {
		content = datatypes.JSONMap{}
	}

	now := s.now().UTC()
	document := domain.Document{
		ID:         uuid.New(),
		Title:      req.Title,
		Content:    content,
		SearchText: searchText(req.Title, content),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	node := domain.DocumentNode{
		NodeID:       nodeID,
		DocumentID:   document.ID,
		ParentNodeID: parentID,
		DepartmentID: req.DepartmentID,
		Path:         path,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Document and node land in one transaction so a failure cannot leave an
	// orphaned document behind.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.InsertDocument(ctx, document); err != nil {
			return err
		}
		return repo.InsertNode(ctx, node)
	})
	if err != nil {
		return nil, err
	}

	return &domain.CreateResult{
		DocumentID: document.ID,
		NodeID:     nodeID,
		Path:       path,
	}, nil
}

func (s *Service) Get(ctx context.Context, req domain.GetRequest) (*domain.TreeNode, error) {
	switch req.Depth {
	case domain.DepthZero, domain.DepthOne, domain.DepthAll:
	default:
		return nil, domain.ErrInvalidDepth
	}

	base, err := s.repo.NodeWithDocument(ctx, req.DepartmentID, req.NodeID)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, domain.ErrNotFound
	}

	root := treeNode(*base)

	switch req.Depth {
	case domain.DepthZero:
		return root, nil
	case domain.DepthOne:
		children, err := s.repo.Children(ctx, req.DepartmentID, base.Node.NodeID)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			root.Children = append(root.Children, treeNode(child))
		}
		return root, nil
	default:
		rows, err := s.repo.Subtree(ctx, req.DepartmentID, base.Node.Path)
		if err != nil {
			return nil, err
		}
		return buildTree(rows), nil
	}
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (string, error) {
	base, err := s.repo.NodeWithDocument(ctx, req.DepartmentID, req.NodeID)
	if err != nil {
		return "", err
	}
	if base == nil {
		return "", domain.ErrNotFound
	}

	document := base.Document
	if req.Title != nil {
		document.Title = *req.Title
	}
	if req.Content != nil {
		document.Content = req.Content
	}
	document.SearchText = searchText(document.Title, document.Content)
	document.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateDocument(ctx, document); err != nil {
		return "", err
	}
	return base.Node.NodeID, nil
}

func (s *Service) Delete(ctx context.Context, departmentID uuid.UUID, nodeID string) error {
	node, err := s.repo.ActiveNode(ctx, departmentID, nodeID)
	if err != nil {
		return err
	}
	if node == nil {
		return domain.ErrNotFound
	}

	// Single generation timestamp for the whole cascade.
	at := s.now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).SoftDeleteSubtree(ctx, departmentID, node.Path, at)
	})
}

func treeNode(pair domain.NodeDocument) *domain.TreeNode {
	return &domain.TreeNode{
		NodeID:       pair.Node.NodeID,
		Title:        pair.Document.Title,
		Content:      pair.Document.Content,
		ParentNodeID: pair.Node.ParentNodeID,
		Children:     []*domain.TreeNode{},
	}
}

// buildTree reconstructs the nested structure from path-sorted rows. The
// first row is always the subtree root because paths sort in pre-order.
func buildTree(rows []domain.NodeDocument) *domain.TreeNode {
	if len(rows) == 0 {
		return nil
	}

	nodes := make(map[string]*domain.TreeNode, len(rows))
	for _, row := range rows {
		nodes[row.Node.NodeID] = treeNode(row)
	}

	for _, row := range rows {
		parentID := row.Node.ParentNodeID
		if parentID == nil {
			continue
		}
		if parent, ok := nodes[*parentID]; ok {
			parent.Children = append(parent.Children, nodes[row.Node.NodeID])
		}
	}

	return nodes[rows[0].Node.NodeID]
}

// searchText is a plain-text projection of title and content values used by
// the search index column. Keys are sorted so identical content always
// projects to the same text.
func searchText(title string, content datatypes.JSONMap) string {
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := []string{strings.ToLower(title)}
	for _, key := range keys {
		if text, ok := content[key].(string); ok {
			parts = append(parts, strings.ToLower(text))
		}
	}
	return strings.Join(parts, " ")
}
