package models

import "time"

// Cashier is a person allowed to ring up sales. Cashiers are deactivated, never deleted.
type Cashier struct {
	CashierID int64     `gorm:"column:cashier_id;primaryKey;autoIncrement"`
	FullName  string    `gorm:"column:full_name;not null"`
	Username  *string   `gorm:"column:username;uniqueIndex:cashiers_username_key"`
	Active    bool      `gorm:"column:active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Cashier) TableName() string { return "cashiers" }
