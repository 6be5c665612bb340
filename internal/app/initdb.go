package app

import (
	"errors"
	"time"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"github.com/cooscarhuerta/CRMGrapHQL/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func (a *Application) checkSuper() {
	const superEmail = "admin@crmd.local"
	const defaultPassword = "crmd"

	var user domain.User
	err := a.gormDB.Where("email = ?", superEmail).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, herr := bcrypt.GenerateFromPassword([]byte(defaultPassword), 10)
		if herr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(herr))
			return
		}
		if err := a.gormDB.Create(&domain.User{
			ID:        common.UUIDint64(),
			Email:     superEmail,
			Name:      "admin",
			Surname:   "crmd",
			Password:  string(hash),
			CreatedAt: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("email", superEmail))
		}
	case err != nil:
		zap.L().Error("failed to query default admin", zap.Error(err))
	}
}

// checkDemoCatalog seeds a small catalog so a fresh install has
// something to sell.
func (a *Application) checkDemoCatalog() {
	defaultProducts := []domain.Product{
		{Name: "demo-widget-basic", Price: 9.99, Stock: 100},
		{Name: "demo-widget-pro", Price: 24.5, Stock: 50},
		{Name: "demo-addon-support", Price: 49.95, Stock: 200},
	}

	for _, p := range defaultProducts {
		var count int64
		a.gormDB.Model(&domain.Product{}).Where("name = ?", p.Name).Count(&count)
		if count == 0 {
			p.ID = common.UUIDint64()
			p.CreatedAt = time.Now()
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default product", zap.String("name", p.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized default product", zap.String("name", p.Name))
			}
		}
	}
}
