package domain

import "time"

// CrmOprLog is an audit row recorded for every mutation, written
// asynchronously by the audit recorder.
type CrmOprLog struct {
	ID       int64     `gorm:"primaryKey" json:"id,string"`
	OprID    int64     `gorm:"index" json:"opr_id,string"`
	OprEmail string    `gorm:"size:255" json:"opr_email"`
	Action   string    `gorm:"size:64" json:"action"`
	Target   string    `gorm:"size:255" json:"target"`
	Remark   string    `gorm:"size:1024" json:"remark"`
	OptTime  time.Time `gorm:"index" json:"opt_time"`
}
