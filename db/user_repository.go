package db

import (
	"context"
	"fmt"
	"sort"

	"saratovquest/models"
	"saratovquest/services"
)

// UserRepository handles user rows, the leaderboard and the activity feed.
type UserRepository struct {
	pool Querier
}

func NewUserRepository(database *Database) *UserRepository {
	return &UserRepository{pool: database.Pool()}
}

const userColumns = `id, username, email, password_hash, full_name, avatar_url, points, level, is_premium, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
		&u.AvatarURL, &u.Points, &u.Level, &u.IsPremium, &u.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

// Create inserts a new user with zero progress. A username or email
// collision comes back as ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash, fullName string) (*models.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		username, email, passwordHash, fullName)
	return scanUser(row)
}

// ExistsByUsernameOrEmail reports whether either identifier is taken
// (case-sensitive exact match).
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		username, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByLogin looks a user up by username or email.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`, login)
	return scanUser(row)
}

// UpdateProfile merges the non-nil fields into the stored profile.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int, fullName, avatarURL *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET full_name = COALESCE($1, full_name),
		    avatar_url = COALESCE($2, avatar_url),
		    updated_at = NOW()
		WHERE id = $3`,
		fullName, avatarURL, id)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats returns a user's aggregate activity counters.
func (r *UserRepository) Stats(ctx context.Context, id int) (*models.UserStats, error) {
	var s models.UserStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM user_quests WHERE user_id = $1),
			(SELECT COUNT(DISTINCT q.category)
			   FROM user_quests uq JOIN quests q ON uq.quest_id = q.id
			  WHERE uq.user_id = $1),
			(SELECT COUNT(*) FROM reviews WHERE user_id = $1),
			(SELECT COUNT(*) FROM user_achievements WHERE user_id = $1)`,
		id).Scan(&s.QuestsCompleted, &s.CategoriesExplored, &s.ReviewsWritten, &s.AchievementsEarned)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	return &s, nil
}

// Leaderboard returns a page of users ranked by points DESC, level
// DESC, id ASC. The SQL ORDER BY windows the page; positions are then
// assigned under services.LeaderboardLess, the single definition of
// the ranking predicate, which makes the ordering a strict total
// order and positions stable across requests.
func (r *UserRepository) Leaderboard(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.username, u.full_name, u.avatar_url, u.points, u.level,
		       COUNT(uq.id) AS quests_completed
		FROM users u
		LEFT JOIN user_quests uq ON u.id = uq.user_id
		GROUP BY u.id
		ORDER BY u.points DESC, u.level DESC, u.id ASC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.FullName, &e.AvatarURL,
			&e.Points, &e.Level, &e.QuestsCompleted); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return services.LeaderboardLess(entries[i], entries[j])
	})
	for i := range entries {
		entries[i].Position = offset + i + 1
	}
	return entries, nil
}

// Rank returns 1 + the number of users strictly ahead of the given
// user under the leaderboard ordering, plus the total user count.
// An unknown id comes back as ErrNotFound.
func (r *UserRepository) Rank(ctx context.Context, id int) (rank, total int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) + 1
		        FROM users u1
		        WHERE u1.points > u.points
		           OR (u1.points = u.points AND u1.level > u.level)
		           OR (u1.points = u.points AND u1.level = u.level AND u1.id < u.id)),
		       (SELECT COUNT(*) FROM users)
		FROM users u
		WHERE u.id = $1`,
		id).Scan(&rank, &total)
	if err != nil {
		return 0, 0, translateError(err)
	}
	return rank, total, nil
}

// Activity returns the user's latest quest completions, reviews and
// achievements merged into one feed, newest first.
func (r *UserRepository) Activity(ctx context.Context, id, limit int) ([]models.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT 'quest_completed' AS type, q.title AS title, uq.points_earned AS points,
		       NULL::int AS rating, p.name AS place_name, uq.completed_at AS date
		FROM user_quests uq
		JOIN quests q ON uq.quest_id = q.id
		LEFT JOIN places p ON q.place_id = p.id
		WHERE uq.user_id = $1
		UNION ALL
		SELECT 'review_added', p.name, NULL::int, r.rating, NULL, r.created_at
		FROM reviews r
		JOIN places p ON r.place_id = p.id
		WHERE r.user_id = $1
		UNION ALL
		SELECT 'achievement_earned', a.name, NULL::int, NULL::int, NULL, ua.earned_at
		FROM user_achievements ua
		JOIN achievements a ON ua.achievement_id = a.id
		WHERE ua.user_id = $1
		ORDER BY date DESC
		LIMIT $2`,
		id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.Type, &a.Title, &a.Points, &a.Rating, &a.PlaceName, &a.Date); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
