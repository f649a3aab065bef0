package db

import (
	"context"
	"fmt"

	"saratovquest/models"
	"saratovquest/services"

	"github.com/jackc/pgx/v5"
)

// QuestRepository handles quest rows and per-user quest progression.
type QuestRepository struct {
	pool Querier
}

func NewQuestRepository(database *Database) *QuestRepository {
	return &QuestRepository{pool: database.Pool()}
}

const questColumns = `q.id, q.title, q.description, q.category, q.points_reward, q.difficulty, q.place_id, q.is_active, q.created_at`

func scanQuestWithPlace(row interface{ Scan(...any) error }, q *models.Quest) error {
	return row.Scan(&q.ID, &q.Title, &q.Description, &q.Category, &q.PointsReward,
		&q.Difficulty, &q.PlaceID, &q.IsActive, &q.CreatedAt,
		&q.PlaceName, &q.Latitude, &q.Longitude, &q.Address)
}

// QuestFilter narrows the listing query.
type QuestFilter struct {
	Category   string
	Difficulty int
	Limit      int
	Offset     int
}

// List returns active quests matching the filter, newest first, with
// the bound place joined in.
func (r *QuestRepository) List(ctx context.Context, filter QuestFilter) ([]models.Quest, error) {
	query := `
		SELECT ` + questColumns + `, p.name, p.latitude, p.longitude, p.address
		FROM quests q
		LEFT JOIN places p ON q.place_id = p.id
		WHERE q.is_active = TRUE`
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND q.category = $%d", len(args))
	}
	if filter.Difficulty > 0 {
		args = append(args, filter.Difficulty)
		query += fmt.Sprintf(" AND q.difficulty = $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY q.created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quests: %w", err)
	}
	defer rows.Close()

	var quests []models.Quest
	for rows.Next() {
		var q models.Quest
		if err := scanQuestWithPlace(rows, &q); err != nil {
			return nil, fmt.Errorf("failed to scan quest row: %w", err)
		}
		quests = append(quests, q)
	}
	return quests, rows.Err()
}

func (r *QuestRepository) Get(ctx context.Context, id int) (*models.Quest, error) {
	var q models.Quest
	err := scanQuestWithPlace(r.pool.QueryRow(ctx, `
		SELECT `+questColumns+`, p.name, p.latitude, p.longitude, p.address
		FROM quests q
		LEFT JOIN places p ON q.place_id = p.id
		WHERE q.id = $1`, id), &q)
	if err != nil {
		return nil, translateError(err)
	}
	return &q, nil
}

// MyCompleted returns the user's finished quests, most recent first,
// with the award captured at completion time.
func (r *QuestRepository) MyCompleted(ctx context.Context, userID int) ([]models.CompletedQuest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+questColumns+`, p.name, p.latitude, p.longitude, p.address,
		       uq.completed_at, uq.points_earned
		FROM user_quests uq
		JOIN quests q ON uq.quest_id = q.id
		LEFT JOIN places p ON q.place_id = p.id
		WHERE uq.user_id = $1
		ORDER BY uq.completed_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed quests: %w", err)
	}
	defer rows.Close()

	var completed []models.CompletedQuest
	for rows.Next() {
		var c models.CompletedQuest
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.PointsReward,
			&c.Difficulty, &c.PlaceID, &c.IsActive, &c.CreatedAt,
			&c.PlaceName, &c.Latitude, &c.Longitude, &c.Address,
			&c.CompletedAt, &c.PointsEarned); err != nil {
			return nil, fmt.Errorf("failed to scan completed quest row: %w", err)
		}
		completed = append(completed, c)
	}
	return completed, rows.Err()
}

// MyAvailable returns active quests the user has not completed,
// easiest first, richest reward first within a difficulty.
func (r *QuestRepository) MyAvailable(ctx context.Context, userID int) ([]models.Quest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+questColumns+`, p.name, p.latitude, p.longitude, p.address
		FROM quests q
		LEFT JOIN places p ON q.place_id = p.id
		WHERE q.is_active = TRUE
		  AND q.id NOT IN (SELECT quest_id FROM user_quests WHERE user_id = $1)
		ORDER BY q.difficulty ASC, q.points_reward DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query available quests: %w", err)
	}
	defer rows.Close()

	var quests []models.Quest
	for rows.Next() {
		var q models.Quest
		if err := scanQuestWithPlace(rows, &q); err != nil {
			return nil, fmt.Errorf("failed to scan quest row: %w", err)
		}
		quests = append(quests, q)
	}
	return quests, rows.Err()
}

// Complete runs the whole quest-completion mutation in one
// transaction: record the completion with the reward frozen at the
// quest's current value, add the points, and raise the level to
// services.LevelForPoints of the new total if that exceeds the
// stored one. The UNIQUE(user_id, quest_id) index settles concurrent
// duplicates: exactly one transaction commits, the rest see
// ErrDuplicate.
func (r *QuestRepository) Complete(ctx context.Context, questID, userID int) (*models.Quest, int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var quest models.Quest
	err = tx.QueryRow(ctx, `
		SELECT id, title, description, category, points_reward, difficulty, place_id, is_active, created_at
		FROM quests WHERE id = $1 AND is_active = TRUE`, questID).
		Scan(&quest.ID, &quest.Title, &quest.Description, &quest.Category, &quest.PointsReward,
			&quest.Difficulty, &quest.PlaceID, &quest.IsActive, &quest.CreatedAt)
	if err != nil {
		return nil, 0, translateError(err)
	}

	var alreadyDone bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_quests WHERE user_id = $1 AND quest_id = $2)`,
		userID, questID).Scan(&alreadyDone); err != nil {
		return nil, 0, fmt.Errorf("failed to check quest completion: %w", err)
	}
	if alreadyDone {
		return nil, 0, ErrDuplicate
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_quests (user_id, quest_id, points_earned) VALUES ($1, $2, $3)`,
		userID, questID, quest.PointsReward); err != nil {
		return nil, 0, translateError(err)
	}

	var newPoints int
	if err := tx.QueryRow(ctx, `
		UPDATE users
		SET points = points + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING points`,
		quest.PointsReward, userID).Scan(&newPoints); err != nil {
		return nil, 0, translateError(err)
	}

	// GREATEST keeps the stored level monotonic.
	if _, err := tx.Exec(ctx,
		`UPDATE users SET level = GREATEST(level, $1) WHERE id = $2`,
		services.LevelForPoints(newPoints), userID); err != nil {
		return nil, 0, fmt.Errorf("failed to raise level: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, translateError(err)
	}
	return &quest, quest.PointsReward, nil
}

// Create inserts a quest, verifying the bound place when one is given.
func (r *QuestRepository) Create(ctx context.Context, q *models.Quest) (*models.Quest, error) {
	if q.PlaceID != nil {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM places WHERE id = $1)`, *q.PlaceID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check place existence: %w", err)
		}
		if !exists {
			return nil, ErrNotFound
		}
	}

	var created models.Quest
	err := r.pool.QueryRow(ctx, `
		INSERT INTO quests (title, description, category, points_reward, difficulty, place_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, description, category, points_reward, difficulty, place_id, is_active, created_at`,
		q.Title, q.Description, q.Category, q.PointsReward, q.Difficulty, q.PlaceID).
		Scan(&created.ID, &created.Title, &created.Description, &created.Category, &created.PointsReward,
			&created.Difficulty, &created.PlaceID, &created.IsActive, &created.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &created, nil
}

// Stats buckets the user's completions by difficulty tier (1 easy,
// 2 medium, 3 hard, 4+ expert) and sums quest points.
func (r *QuestRepository) Stats(ctx context.Context, userID int) (*models.QuestStats, error) {
	var s models.QuestStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(uq.points_earned), 0),
		       COUNT(*) FILTER (WHERE q.difficulty = 1),
		       COUNT(*) FILTER (WHERE q.difficulty = 2),
		       COUNT(*) FILTER (WHERE q.difficulty = 3),
		       COUNT(*) FILTER (WHERE q.difficulty >= 4)
		FROM user_quests uq
		JOIN quests q ON uq.quest_id = q.id
		WHERE uq.user_id = $1`,
		userID).Scan(&s.TotalCompleted, &s.TotalPoints, &s.EasyCompleted,
		&s.MediumCompleted, &s.HardCompleted, &s.ExpertCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to load quest stats: %w", err)
	}
	return &s, nil
}

// CategoryCounts returns the user's completions grouped by quest
// category, most frequent first.
func (r *QuestRepository) CategoryCounts(ctx context.Context, userID int) ([]models.CategoryCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.category, COUNT(*) AS count
		FROM user_quests uq
		JOIN quests q ON uq.quest_id = q.id
		WHERE uq.user_id = $1
		GROUP BY q.category
		ORDER BY count DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category counts: %w", err)
	}
	defer rows.Close()

	var counts []models.CategoryCount
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Preferences returns the user's quest history grouped by category,
// most frequent first, with the average award per category.
func (r *QuestRepository) Preferences(ctx context.Context, userID int) ([]models.UserPreference, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.category, COUNT(*) AS frequency, AVG(uq.points_earned) AS avg_points
		FROM user_quests uq
		JOIN quests q ON uq.quest_id = q.id
		WHERE uq.user_id = $1
		GROUP BY q.category
		ORDER BY frequency DESC, avg_points DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user preferences: %w", err)
	}
	defer rows.Close()

	var prefs []models.UserPreference
	for rows.Next() {
		var p models.UserPreference
		if err := rows.Scan(&p.Category, &p.Frequency, &p.AvgPoints); err != nil {
			return nil, fmt.Errorf("failed to scan preference row: %w", err)
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

// Recommended returns active quests the user has not completed,
// richest reward first, easier first on ties.
func (r *QuestRepository) Recommended(ctx context.Context, userID, limit int) ([]models.Quest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+questColumns+`, p.name, p.latitude, p.longitude, p.address
		FROM quests q
		LEFT JOIN places p ON q.place_id = p.id
		WHERE q.is_active = TRUE
		  AND q.id NOT IN (SELECT quest_id FROM user_quests WHERE user_id = $1)
		ORDER BY q.points_reward DESC, q.difficulty ASC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommended quests: %w", err)
	}
	defer rows.Close()

	var quests []models.Quest
	for rows.Next() {
		var q models.Quest
		if err := scanQuestWithPlace(rows, &q); err != nil {
			return nil, fmt.Errorf("failed to scan quest row: %w", err)
		}
		quests = append(quests, q)
	}
	return quests, rows.Err()
}
