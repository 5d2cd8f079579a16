package inventory

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/safar/makeup-inventory/internal/catalog"
	"github.com/safar/makeup-inventory/internal/models"
	"github.com/safar/makeup-inventory/internal/validation"
)

var ErrNothingToUndo = errors.New("nothing to undo")

// Workspace is the state one signed-in session works against: the cached
// product list, the active filter and its result, and the last deleted
// product. The cache is reloaded after every mutation made through the
// workspace.
type Workspace struct {
	service *Service

	mu          sync.Mutex
	cache       []models.Product
	loaded      bool
	criteria    catalog.Criteria
	view        catalog.Result
	lastDeleted *models.Product

	lastUsed atomic.Int64
}

func NewWorkspace(service *Service) *Workspace {
	w := &Workspace{
		service: service,
		view:    catalog.Result{Products: []models.Product{}},
	}
	w.touch()
	return w
}

// Search parses raw filter input and applies it. On bad input the error is
// returned together with the previous view, which stays current.
func (w *Workspace) Search(ctx context.Context, key, category, minText, maxText string) (catalog.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoaded(ctx); err != nil {
		return w.view, err
	}

	criteria, err := catalog.ParseCriteria(key, category, minText, maxText)
	if err != nil {
		return w.view, err
	}
	return w.apply(criteria)
}

// Refresh reloads the cache from the store and reapplies the active filter.
func (w *Workspace) Refresh(ctx context.Context) (catalog.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.reload(ctx); err != nil {
		return w.view, err
	}
	return w.view, nil
}

func (w *Workspace) Add(ctx context.Context, form validation.ProductForm) (*models.Product, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.service.Add(ctx, form)
	if err != nil {
		return nil, err
	}
	w.afterMutation(ctx)
	return p, nil
}

func (w *Workspace) Update(ctx context.Context, id int64, form validation.ProductForm) (*models.Product, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.service.Update(ctx, id, form)
	if err != nil {
		return nil, err
	}
	w.afterMutation(ctx)
	return p, nil
}

// Delete removes product id and remembers it for Undo, replacing whatever
// was remembered before.
func (w *Workspace) Delete(ctx context.Context, id int64) (*models.Product, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.service.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	w.lastDeleted = p
	w.afterMutation(ctx)
	return p, nil
}

// Undo restores the last deleted product. The snapshot is kept when the
// restore fails so the caller can retry.
func (w *Workspace) Undo(ctx context.Context) (*models.Product, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastDeleted == nil {
		return nil, ErrNothingToUndo
	}

	p, err := w.service.Restore(ctx, *w.lastDeleted)
	if err != nil {
		return nil, err
	}
	w.lastDeleted = nil
	w.afterMutation(ctx)
	return p, nil
}

func (w *Workspace) CanUndo() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastDeleted != nil
}

// ImportCSV imports r, or the inventory CSV file when r is nil.
func (w *Workspace) ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var (
		report *ImportReport
		err    error
	)
	if r == nil {
		report, err = w.service.ImportCSVFile(ctx)
	} else {
		report, err = w.service.ImportCSV(ctx, r)
	}
	if err != nil {
		return nil, err
	}
	w.afterMutation(ctx)
	return report, nil
}

// afterMutation reloads the cache. The mutation itself already succeeded,
// so a failed reload only marks the cache stale for the next read.
func (w *Workspace) afterMutation(ctx context.Context) {
	if err := w.reload(ctx); err != nil {
		log.Printf("reload products: %v", err)
		w.loaded = false
	}
}

func (w *Workspace) ensureLoaded(ctx context.Context) error {
	if w.loaded {
		return nil
	}
	return w.reload(ctx)
}

func (w *Workspace) reload(ctx context.Context) error {
	products, err := w.service.List(ctx)
	if err != nil {
		return err
	}
	w.cache = products
	w.loaded = true

	_, err = w.apply(w.criteria)
	return err
}

func (w *Workspace) apply(criteria catalog.Criteria) (catalog.Result, error) {
	result, err := catalog.Filter(w.cache, criteria)
	if err != nil {
		return w.view, err
	}
	w.criteria = criteria
	w.view = result
	return result, nil
}

func (w *Workspace) touch() {
	w.lastUsed.Store(time.Now().UnixNano())
}

func (w *Workspace) idleSince() time.Time {
	return time.Unix(0, w.lastUsed.Load())
}

// Workspaces hands out one Workspace per session id. Workspaces idle for
// longer than the configured time are dropped.
type Workspaces struct {
	service *Service
	idle    time.Duration

	mu     sync.Mutex
	byID   map[string]*Workspace
	pruned time.Time
}

func NewWorkspaces(service *Service, idle time.Duration) *Workspaces {
	return &Workspaces{
		service: service,
		idle:    idle,
		byID:    make(map[string]*Workspace),
		pruned:  time.Now(),
	}
}

func (ws *Workspaces) Get(sessionID string) *Workspace {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.pruneLocked()

	w, ok := ws.byID[sessionID]
	if !ok {
		w = NewWorkspace(ws.service)
		ws.byID[sessionID] = w
	}
	w.touch()
	return w
}

// Drop discards the workspace of sessionID, including its undo snapshot.
func (ws *Workspaces) Drop(sessionID string) {
	ws.mu.Lock()
	delete(ws.byID, sessionID)
	ws.mu.Unlock()
}

func (ws *Workspaces) Len() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.byID)
}

func (ws *Workspaces) pruneLocked() {
	if ws.idle <= 0 || time.Since(ws.pruned) < ws.idle {
		return
	}
	ws.pruned = time.Now()

	cutoff := time.Now().Add(-ws.idle)
	for id, w := range ws.byID {
		if w.idleSince().Before(cutoff) {
			delete(ws.byID, id)
		}
	}
}
