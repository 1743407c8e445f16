package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocType identifies one of the approval document collections.
type DocType string

const (
	DocTypeOrder  DocType = "order"
	DocTypePermit DocType = "permit"
	DocTypeBijak  DocType = "bijak"
)

// Status is one value from a document type's ordered approval chain.
type Status string

const (
	// Payment order chain
	StatusPendingFinancialReview Status = "pending_financial_review"
	StatusApprovedFinancial      Status = "approved_financial"
	StatusApprovedManagement     Status = "approved_management"
	StatusApprovedFinal          Status = "approved_final"

	// Exit permit chain
	StatusPendingCEO        Status = "pending_ceo"
	StatusApprovedCEO       Status = "approved_ceo"
	StatusApprovedFactory   Status = "approved_factory"
	StatusApprovedWarehouse Status = "approved_warehouse"
	StatusExited            Status = "exited"

	// Warehouse bijak gate
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"

	// Terminal for every chain
	StatusRejected Status = "rejected"
)

// Role is one of the fixed back-office roles or a custom role id.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleFinanceManager  Role = "finance_manager"
	RoleCEO             Role = "ceo"
	RoleTreasurer       Role = "treasurer"
	RoleFactoryManager  Role = "factory_manager"
	RoleWarehouseKeeper Role = "warehouse_keeper"
	RoleSecurityHead    Role = "security_head"
	RoleStaff           Role = "staff"
)

// Envelope is the shared shape of every approval document. Number is
// assigned once at creation and never changed; Approvers records, per
// chain stage, the display name of whoever executed that stage.
type Envelope struct {
	ID        string            `json:"id"`
	Number    int               `json:"number"`
	Status    Status            `json:"status"`
	Company   string            `json:"company"`
	Requester string            `json:"requester"`
	Approvers map[Status]string `json:"approvers,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// PaymentOrder is a request to pay an amount to a payee.
type PaymentOrder struct {
	Envelope
	Amount      decimal.Decimal `json:"amount"`
	Payee       string          `json:"payee"`
	Description string          `json:"description"`
}

// ExitPermit allows goods to leave the premises.
type ExitPermit struct {
	Envelope
	Recipient string `json:"recipient"`
	Goods     string `json:"goods"`
	Count     int    `json:"count"`
}

// BijakItem is one line of a warehouse outbound transaction.
type BijakItem struct {
	Material string `json:"material"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

// Bijak is a warehouse outbound record; its item lines document what
// left the warehouse and in what quantity.
type Bijak struct {
	Envelope
	Driver   string      `json:"driver,omitempty"`
	Items    []BijakItem `json:"items"`
}

// User holds one role and zero or more channel identities. Fan-out to a
// user means "send to every channel identity present".
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"password"`
	Role           Role      `json:"role"`
	FullName       string    `json:"full_name"`
	BaleChatID     int64     `json:"bale_chat_id,omitempty"`
	TelegramChatID int64     `json:"telegram_chat_id,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DisplayName prefers the full name over the login name.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeTask    NotificationType = "task"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeError   NotificationType = "error"
)

// Notification is one in-app row on the web push channel.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	DocType   DocType          `json:"doc_type,omitempty"`
	DocID     string           `json:"doc_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
}

// Event is an operational log row persisted by the logger's store core.
type Event struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Caller    string    `json:"caller,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FiscalYearConfig carries the per-company starting floors for document
// numbering; a floor only matters while a scope has no documents yet.
type FiscalYearConfig struct {
	Company string          `json:"company"`
	Floors  map[DocType]int `json:"floors"`
}

// Settings is the single configuration object stored alongside the
// collections.
type Settings struct {
	Counters      map[DocType]int          `json:"counters"`
	FiscalYears   []FiscalYearConfig       `json:"fiscal_years,omitempty"`
	RoleOverrides map[Role]map[string]bool `json:"role_overrides,omitempty"`
	UpdatedAt     time.Time                `json:"updated_at"`
}
