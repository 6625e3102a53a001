package domain

import (
	"time"
)

// Settings is a persistent configuration row. Store information and
// notification preferences are grouped by category.
type Settings struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Sort      int       `json:"sort" form:"sort"`
	Category  string    `gorm:"uniqueIndex:idx_settings_key" json:"category" form:"category"`
	Name      string    `gorm:"uniqueIndex:idx_settings_key" json:"name" form:"name"`
	Value     string    `json:"value" form:"value"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Settings) TableName() string {
	return "sys_settings"
}

type SysOprLog struct {
	ID        int64     `json:"id,string"`
	OprName   string    `json:"opr_name"`
	OprIp     string    `json:"opr_ip"`
	OptAction string    `json:"opt_action"`
	OptDesc   string    `json:"opt_desc"`
	OptTime   time.Time `json:"opt_time"`
}

// TableName Specify table name
func (SysOprLog) TableName() string {
	return "sys_opr_log"
}
