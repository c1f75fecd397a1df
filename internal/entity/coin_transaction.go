package entity

import "github.com/koinonia-app/backend/pkg/enum"

type CoinSourceType string

var (
	SourceTask            = enum.New(CoinSourceType("task"))
	SourceChallenge       = enum.New(CoinSourceType("challenge"))
	SourceQuiz            = enum.New(CoinSourceType("quiz"))
	SourceOnboarding      = enum.New(CoinSourceType("onboarding"))
	SourceAdminAdjustment = enum.New(CoinSourceType("admin_adjustment"))
)

type CoinTransactionStatus string

var (
	TransactionPending  = enum.New(CoinTransactionStatus("pending"))
	TransactionApproved = enum.New(CoinTransactionStatus("approved"))
	TransactionRejected = enum.New(CoinTransactionStatus("rejected"))
)

// CoinTransaction is the reward ledger entry. The composite unique index is
// what makes reward issuance idempotent: a duplicate issue hits the index and
// is dropped by the insert-or-ignore path instead of racing a pre-check.
type CoinTransaction struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_coin_tx_user_source"`
	User   User   `gorm:"foreignKey:UserID"`

	SourceType CoinSourceType `gorm:"uniqueIndex:idx_coin_tx_user_source"`
	SourceID   string         `gorm:"uniqueIndex:idx_coin_tx_user_source"`

	// CoinAmount is signed so that admin adjustments can deduct as well as
	// credit. Engine-issued rewards are always positive.
	CoinAmount int64
	Status     CoinTransactionStatus
	Reason     string

	ReviewerID string
}
