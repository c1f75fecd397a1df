package repository

import (
	"context"
	"time"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserBalanceRecord struct {
	UserID string
	Coins  int64
}

type CoinTransactionRepository interface {
	CreateIfNotExist(ctx context.Context, tx *entity.CoinTransaction) (inserted bool, err error)
	GetByID(ctx context.Context, id string) (*entity.CoinTransaction, error)
	Get(ctx context.Context, userID string, sourceType entity.CoinSourceType, sourceID string) (*entity.CoinTransaction, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.CoinTransaction, error)
	GetListByStatus(ctx context.Context, status entity.CoinTransactionStatus, offset, limit int) ([]entity.CoinTransaction, error)
	UpdateReviewByIDs(ctx context.Context, ids []string, reviewerID string, status entity.CoinTransactionStatus) (int64, error)
	SumApprovedByUser(ctx context.Context, since time.Time, limit int) ([]UserBalanceRecord, error)
}

type coinTransactionRepository struct{}

func NewCoinTransactionRepository() *coinTransactionRepository {
	return &coinTransactionRepository{}
}

// CreateIfNotExist inserts the transaction unless another one with the same
// (user, source type, source id) already exists. The unique index decides,
// so concurrent duplicate issues collapse to a single inserted row. The
// returned flag tells whether this call actually created the record.
func (r *coinTransactionRepository) CreateIfNotExist(
	ctx context.Context, tx *entity.CoinTransaction,
) (bool, error) {
	result := xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "source_type"}, {Name: "source_id"},
			},
			DoNothing: true,
		}).
		Create(tx)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *coinTransactionRepository) GetByID(ctx context.Context, id string) (*entity.CoinTransaction, error) {
	var result entity.CoinTransaction
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *coinTransactionRepository) Get(
	ctx context.Context, userID string, sourceType entity.CoinSourceType, sourceID string,
) (*entity.CoinTransaction, error) {
	var result entity.CoinTransaction
	err := xcontext.DB(ctx).
		Where("user_id=? AND source_type=? AND source_id=?", userID, sourceType, sourceID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *coinTransactionRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.CoinTransaction, error) {
	var result []entity.CoinTransaction
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *coinTransactionRepository) GetListByStatus(
	ctx context.Context, status entity.CoinTransactionStatus, offset, limit int,
) ([]entity.CoinTransaction, error) {
	var result []entity.CoinTransaction
	err := xcontext.DB(ctx).
		Where("status=?", status).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *coinTransactionRepository) UpdateReviewByIDs(
	ctx context.Context, ids []string, reviewerID string, status entity.CoinTransactionStatus,
) (int64, error) {
	result := xcontext.DB(ctx).
		Model(&entity.CoinTransaction{}).
		Where("id IN (?) AND status=?", ids, entity.TransactionPending).
		Updates(map[string]any{
			"status":      status,
			"reviewer_id": reviewerID,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *coinTransactionRepository) SumApprovedByUser(
	ctx context.Context, since time.Time, limit int,
) ([]UserBalanceRecord, error) {
	var result []UserBalanceRecord
	err := xcontext.DB(ctx).
		Model(&entity.CoinTransaction{}).
		Select("user_id, SUM(coin_amount) as coins").
		Where("status=? AND created_at >= ?", entity.TransactionApproved, since).
		Group("user_id").
		Order("coins DESC").
		Limit(limit).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
