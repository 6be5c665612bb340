// Package audit persists a trail of CRM mutations. Events arrive
// asynchronously over the process-local event bus so request latency
// never waits on the audit write.
package audit

import (
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/auth"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"github.com/cooscarhuerta/CRMGrapHQL/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Topic is the bus topic audit events travel on.
const Topic = "crm.audit"

// Event describes one recorded mutation.
type Event struct {
	OprID    int64
	OprEmail string
	Action   string
	Target   string
	Remark   string
}

// Recorder writes audit events to the database.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Subscribe attaches the recorder to the bus. Async with transactional
// delivery order per publisher.
func (r *Recorder) Subscribe(bus EventBus.Bus) error {
	return bus.SubscribeAsync(Topic, r.record, true)
}

func (r *Recorder) record(ev Event) {
	log := &domain.CrmOprLog{
		ID:       common.UUIDint64(),
		OprID:    ev.OprID,
		OprEmail: ev.OprEmail,
		Action:   ev.Action,
		Target:   ev.Target,
		Remark:   ev.Remark,
		OptTime:  time.Now(),
	}
	if err := r.db.Create(log).Error; err != nil {
		zap.L().Warn("failed to write audit log",
			zap.String("action", ev.Action),
			zap.Error(err))
	}
}

// Publish emits a mutation event for the acting identity. Anonymous
// mutations (registration, login) pass a nil identity.
func Publish(bus EventBus.Bus, ident *auth.Identity, action, target, remark string) {
	if bus == nil {
		return
	}
	ev := Event{Action: action, Target: target, Remark: remark}
	if ident != nil {
		ev.OprID = ident.ID
		ev.OprEmail = ident.Email
	}
	bus.Publish(Topic, ev)
}
