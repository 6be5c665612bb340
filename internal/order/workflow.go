// Package order implements the order workflow: stock validation, stock
// decrement and order persistence change together or not at all.
package order

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/auth"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/guard"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LineItem is one requested line of an order.
type LineItem struct {
	ProductID int64 `mapstructure:"product_id"`
	Quantity  int   `mapstructure:"quantity"`
}

// PlaceInput describes a new order.
type PlaceInput struct {
	ClientID int64      `mapstructure:"client_id"`
	Items    []LineItem `mapstructure:"items"`
	Status   string     `mapstructure:"status"`
}

// UpdatePatch carries partial order updates. Nil fields are untouched.
type UpdatePatch struct {
	ClientID *int64     `mapstructure:"client_id"`
	Items    []LineItem `mapstructure:"items"`
	Status   *string    `mapstructure:"status"`
}

// Options are the runtime policies of the workflow.
type Options struct {
	// RestockOnCancel returns an order's quantities to stock when it
	// is cancelled.
	RestockOnCancel bool
}

// productLocks serializes reservations per product. The conditional
// UPDATE already prevents oversell at the store; the lock keeps two
// in-flight reservations of the same product from fighting over row
// locks inside their transactions.
type productLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[int64]*sync.Mutex)}
}

// acquire takes the per-product locks in ascending ID order so two
// callers can never deadlock, and returns the matching release.
func (l *productLocks) acquire(ids []int64) func() {
	uniq := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		uniq[id] = struct{}{}
	}
	sorted := make([]int64, 0, len(uniq))
	for id := range uniq {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		l.mu.Lock()
		m, ok := l.locks[id]
		if !ok {
			m = &sync.Mutex{}
			l.locks[id] = m
		}
		l.mu.Unlock()
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// Workflow orchestrates stock reservation and order persistence. Every
// operation runs in one database transaction so a failed reservation
// rolls back all earlier decrements of the same call.
type Workflow struct {
	db    *gorm.DB
	opts  Options
	newID func() int64
	locks *productLocks
}

func NewWorkflow(db *gorm.DB, opts Options, newID func() int64) *Workflow {
	return &Workflow{db: db, opts: opts, newID: newID, locks: newProductLocks()}
}

// PlaceOrder reserves stock for every line item and persists the order
// with unit prices snapshotted at reservation time. All-or-nothing: any
// NotFound or InsufficientStock rolls back every decrement.
func (w *Workflow) PlaceOrder(ctx context.Context, ident *auth.Identity, input PlaceInput) (*domain.Order, error) {
	if err := guard.RequireIdentity(ident); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalid, status)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", domain.ErrInvalid)
	}

	release := w.locks.acquire(lineProductIDs(input.Items))
	defer release()

	var placed *domain.Order
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clients := repository.NewGormClientRepository(tx)
		client, err := clients.GetByID(ctx, input.ClientID)
		if err != nil {
			return err
		}
		if err := guard.AssertOwns(ident, client.SellerID); err != nil {
			return err
		}

		items, total, err := w.reserveItems(ctx, tx, input.Items)
		if err != nil {
			return err
		}

		now := time.Now()
		placed = &domain.Order{
			ID:        w.newID(),
			ClientID:  client.ID,
			SellerID:  ident.ID,
			Total:     total,
			Status:    status,
			Items:     items,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return repository.NewGormOrderRepository(tx).Create(ctx, placed)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order placed",
		zap.Int64("order_id", placed.ID),
		zap.Int64("seller_id", ident.ID),
		zap.Float64("total", placed.Total))
	return placed, nil
}

// UpdateOrder applies a partial patch. Revised line items go through
// the same conditional reservation as placement, against current stock;
// the previous reservation is not returned first. Ownership rule: the
// acting seller must own the order, and when the patch moves the order
// to another client, that client too.
func (w *Workflow) UpdateOrder(ctx context.Context, ident *auth.Identity, orderID int64, patch UpdatePatch) (*domain.Order, error) {
	if err := guard.RequireIdentity(ident); err != nil {
		return nil, err
	}
	if patch.Status != nil && !domain.ValidOrderStatus(*patch.Status) {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalid, *patch.Status)
	}

	if len(patch.Items) > 0 {
		release := w.locks.acquire(lineProductIDs(patch.Items))
		defer release()
	}

	var updated *domain.Order
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repository.NewGormOrderRepository(tx)
		existing, err := orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := guard.AssertOwns(ident, existing.SellerID); err != nil {
			return err
		}

		clientID := existing.ClientID
		if patch.ClientID != nil {
			clientID = *patch.ClientID
		}
		client, err := repository.NewGormClientRepository(tx).GetByID(ctx, clientID)
		if err != nil {
			return err
		}
		if err := guard.AssertOwns(ident, client.SellerID); err != nil {
			return err
		}
		existing.ClientID = client.ID

		if len(patch.Items) > 0 {
			items, total, err := w.reserveItems(ctx, tx, patch.Items)
			if err != nil {
				return err
			}
			if err := orders.ReplaceItems(ctx, existing.ID, items); err != nil {
				return err
			}
			existing.Items = items
			existing.Total = total
		}
		if patch.Status != nil {
			existing.Status = *patch.Status
		}
		existing.UpdatedAt = time.Now()
		if err := orders.Save(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order updated", zap.Int64("order_id", updated.ID), zap.String("status", updated.Status))
	return updated, nil
}

// CancelOrder hard-deletes the order. Only the order's recorded seller
// may cancel. Stock restoration follows the RestockOnCancel policy.
func (w *Workflow) CancelOrder(ctx context.Context, ident *auth.Identity, orderID int64) error {
	if err := guard.RequireIdentity(ident); err != nil {
		return err
	}

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repository.NewGormOrderRepository(tx)
		existing, err := orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := guard.AssertOwns(ident, existing.SellerID); err != nil {
			return err
		}

		if w.opts.RestockOnCancel {
			products := repository.NewGormProductRepository(tx)
			for _, item := range existing.Items {
				if err := products.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return orders.Delete(ctx, existing.ID)
	})
	if err != nil {
		return err
	}

	zap.L().Info("order cancelled", zap.Int64("order_id", orderID), zap.Int64("seller_id", ident.ID))
	return nil
}

func lineProductIDs(lines []LineItem) []int64 {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

// reserveItems walks the requested lines in input order, applying the
// conditional decrement per product and snapshotting unit prices.
func (w *Workflow) reserveItems(ctx context.Context, tx *gorm.DB, lines []LineItem) ([]domain.OrderItem, float64, error) {
	products := repository.NewGormProductRepository(tx)
	items := make([]domain.OrderItem, 0, len(lines))
	var total float64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, 0, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalid)
		}
		product, err := products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, 0, err
		}
		if err := products.ReserveStock(ctx, product.ID, line.Quantity); err != nil {
			return nil, 0, err
		}
		items = append(items, domain.OrderItem{
			ID:        w.newID(),
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(line.Quantity)
	}
	return items, total, nil
}
