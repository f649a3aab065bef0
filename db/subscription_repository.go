package db

import (
	"context"
	"fmt"

	"saratovquest/models"

	"github.com/jackc/pgx/v5"
)

// SubscriptionRepository handles premium plan activation.
type SubscriptionRepository struct {
	pool Querier
}

func NewSubscriptionRepository(database *Database) *SubscriptionRepository {
	return &SubscriptionRepository{pool: database.Pool()}
}

// Activate records a subscription and flips the user's premium flag in
// one transaction. Payment integration is out of scope; activation is
// immediate.
func (r *SubscriptionRepository) Activate(ctx context.Context, userID int, planType string, price int) (*models.BusinessSubscription, error) {
	interval := "1 month"
	if planType == "yearly" {
		interval = "1 year"
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var sub models.BusinessSubscription
	err = tx.QueryRow(ctx, `
		INSERT INTO business_subscriptions (user_id, plan_type, price, end_date)
		VALUES ($1, $2, $3, NOW() + $4::interval)
		RETURNING id, user_id, plan_type, price, start_date, end_date, is_active`,
		userID, planType, price, interval).
		Scan(&sub.ID, &sub.UserID, &sub.PlanType, &sub.Price, &sub.StartDate, &sub.EndDate, &sub.IsActive)
	if err != nil {
		return nil, translateError(err)
	}

	tag, err := tx.Exec(ctx, `UPDATE users SET is_premium = TRUE, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to set premium flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateError(err)
	}
	return &sub, nil
}
