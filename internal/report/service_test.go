package report

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"github.com/cooscarhuerta/CRMGrapHQL/pkg/common"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newReportDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "report.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func addSeller(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{ID: common.UUIDint64(), Email: email, CreatedAt: time.Now()}
	require.NoError(t, db.Create(u).Error)
	return u
}

func addClient(t *testing.T, db *gorm.DB, email string, sellerID int64) *domain.Client {
	t.Helper()
	c := &domain.Client{
		ID:        common.UUIDint64(),
		Email:     email,
		SellerID:  sellerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func addOrder(t *testing.T, db *gorm.DB, clientID, sellerID int64, total float64, status string) {
	t.Helper()
	o := &domain.Order{
		ID:        common.UUIDint64(),
		ClientID:  clientID,
		SellerID:  sellerID,
		Total:     total,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(o).Error)
}

func TestTopClientsRanking(t *testing.T) {
	db := newReportDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seller := addSeller(t, db, "s1@corp.test")
	big := addClient(t, db, "big@client.test", seller.ID)
	small := addClient(t, db, "small@client.test", seller.ID)

	addOrder(t, db, big.ID, seller.ID, 500, domain.OrderStatusCompleted)
	addOrder(t, db, big.ID, seller.ID, 300, domain.OrderStatusCompleted)
	addOrder(t, db, small.ID, seller.ID, 200, domain.OrderStatusCompleted)
	// pending revenue must not count
	addOrder(t, db, small.ID, seller.ID, 9999, domain.OrderStatusPending)

	ranked, err := svc.TopClients(ctx)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	require.Equal(t, big.ID, ranked[0].Client.ID)
	require.Equal(t, 800.0, ranked[0].Total)
	require.Equal(t, small.ID, ranked[1].Client.ID)
	require.Equal(t, 200.0, ranked[1].Total)
}

func TestTopClientsBoundedToTen(t *testing.T) {
	db := newReportDB(t)
	svc := NewService(db)

	seller := addSeller(t, db, "s1@corp.test")
	for i := 0; i < 12; i++ {
		c := addClient(t, db, fmt.Sprintf("c%d@client.test", i), seller.ID)
		addOrder(t, db, c.ID, seller.ID, float64(100+i), domain.OrderStatusCompleted)
	}

	ranked, err := svc.TopClients(context.Background())
	require.NoError(t, err)
	require.Len(t, ranked, 10)
}

func TestTopSellersBoundedToThree(t *testing.T) {
	db := newReportDB(t)
	svc := NewService(db)

	for i := 0; i < 5; i++ {
		s := addSeller(t, db, fmt.Sprintf("s%d@corp.test", i))
		c := addClient(t, db, fmt.Sprintf("c%d@client.test", i), s.ID)
		addOrder(t, db, c.ID, s.ID, float64(1000-i*100), domain.OrderStatusCompleted)
	}

	ranked, err := svc.TopSellers(context.Background())
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	require.Equal(t, 1000.0, ranked[0].Total)
	require.Equal(t, 900.0, ranked[1].Total)
	require.Equal(t, 800.0, ranked[2].Total)
}

func TestSearchProductsBounded(t *testing.T) {
	db := newReportDB(t)
	svc := NewService(db)

	for i := 0; i < 12; i++ {
		p := &domain.Product{
			ID:        common.UUIDint64(),
			Name:      fmt.Sprintf("laptop %d", i),
			Price:     1,
			Stock:     1,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, db.Create(p).Error)
	}

	found, err := svc.SearchProducts(context.Background(), "Laptop")
	require.NoError(t, err)
	require.Len(t, found, 10)
}

func TestSummary(t *testing.T) {
	db := newReportDB(t)
	svc := NewService(db)
	ctx := context.Background()

	empty, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Zero(t, empty.Orders)
	require.Zero(t, empty.Revenue)

	seller := addSeller(t, db, "s1@corp.test")
	client := addClient(t, db, "c1@client.test", seller.ID)
	addOrder(t, db, client.ID, seller.ID, 100, domain.OrderStatusCompleted)
	addOrder(t, db, client.ID, seller.ID, 300, domain.OrderStatusCompleted)
	addOrder(t, db, client.ID, seller.ID, 50, domain.OrderStatusPending)

	got, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, got.Orders)
	require.Equal(t, 400.0, got.Revenue)
	require.Equal(t, 200.0, got.Mean)
	require.Equal(t, 300.0, got.Largest)
}
