package db

import (
	"context"
	"fmt"

	"saratovquest/models"
)

// AchievementRepository reads the static catalog and per-user awards.
type AchievementRepository struct {
	pool Querier
}

func NewAchievementRepository(database *Database) *AchievementRepository {
	return &AchievementRepository{pool: database.Pool()}
}

// Catalog returns every achievement, cheapest requirement first.
func (r *AchievementRepository) Catalog(ctx context.Context) ([]models.Achievement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, icon, points_required
		FROM achievements
		ORDER BY points_required ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var catalog []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.PointsRequired); err != nil {
			return nil, fmt.Errorf("failed to scan achievement row: %w", err)
		}
		catalog = append(catalog, a)
	}
	return catalog, rows.Err()
}

// EarnedBy returns the achievements recorded for a user, most recent
// first.
func (r *AchievementRepository) EarnedBy(ctx context.Context, userID int) ([]models.EarnedAchievement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.name, a.description, a.icon, a.points_required, ua.earned_at
		FROM user_achievements ua
		JOIN achievements a ON ua.achievement_id = a.id
		WHERE ua.user_id = $1
		ORDER BY ua.earned_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query earned achievements: %w", err)
	}
	defer rows.Close()

	var earned []models.EarnedAchievement
	for rows.Next() {
		var e models.EarnedAchievement
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Icon, &e.PointsRequired, &e.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan earned achievement row: %w", err)
		}
		earned = append(earned, e)
	}
	return earned, rows.Err()
}
