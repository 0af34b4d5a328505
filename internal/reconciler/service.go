package reconciler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"textile-trade-tracker/internal/docstore"
	"textile-trade-tracker/internal/order"
)

// Service keeps the documents directory in step with the live orders:
// folders belonging to cancelled or deleted orders are removed on an
// hourly sweep.
type Service interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Reconcile(ctx context.Context)
}

type DefaultService struct {
	orderService order.Service
	documents    docstore.Service
	wg           *sync.WaitGroup
}

func NewDefaultService(orderService order.Service, documents docstore.Service) Service {
	return &DefaultService{
		orderService: orderService,
		documents:    documents,
		wg:           &sync.WaitGroup{},
	}
}

func (d *DefaultService) Start(ctx context.Context) {
	d.startReconciliationLoop(ctx)
	slog.Info("Started reconciler service")
}

func (d *DefaultService) Stop(ctx context.Context) error {
	stop := make(chan struct{})
	go func() {
		d.wg.Wait()
		stop <- struct{}{}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-stop:
		return nil
	}
}

func (d *DefaultService) startReconciliationLoop(ctx context.Context) {
	ticker := time.Tick(time.Hour)

	d.wg.Add(1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				d.wg.Done()
				return
			case <-ticker:
				d.Reconcile(ctx)
			}
		}
	}()
}

func (d *DefaultService) Reconcile(ctx context.Context) {
	orders, err := d.orderService.ListOrders(ctx, false)
	if err != nil {
		slog.Error("Failed to list orders for reconciliation", "error", err)
		return
	}

	live := make(map[int]struct{}, len(orders))
	for _, o := range orders {
		live[o.OrderNo] = struct{}{}
	}

	folders, err := d.documents.ListFolders()
	if err != nil {
		slog.Error("Failed to list document folders", "error", err)
		return
	}

	for _, folder := range folders {
		orderNo, ok := docstore.OrderNoOf(folder)
		if !ok {
			continue
		}
		if _, found := live[orderNo]; found {
			continue
		}
		if err := d.documents.DeleteFolder(folder); err != nil {
			slog.Error("Failed to remove stale document folder", "error", err, "folder", folder)
			continue
		}
		slog.Info("Removed stale document folder", "folder", folder, "orderNo", orderNo)
	}
}
