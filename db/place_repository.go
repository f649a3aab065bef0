package db

import (
	"context"
	"fmt"
	"math"

	"saratovquest/models"

	"github.com/jackc/pgx/v5"
)

// PlaceRepository handles place rows and their reviews.
type PlaceRepository struct {
	pool Querier
}

func NewPlaceRepository(database *Database) *PlaceRepository {
	return &PlaceRepository{pool: database.Pool()}
}

const placeColumns = `id, name, description, category, latitude, longitude, address, phone, website, rating, image_url, is_premium, owner_id, created_at, updated_at`

// roundRating stores review means with one decimal.
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

func scanPlace(row interface{ Scan(...any) error }) (*models.Place, error) {
	var p models.Place
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Latitude, &p.Longitude,
		&p.Address, &p.Phone, &p.Website, &p.Rating, &p.ImageURL, &p.IsPremium,
		&p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

// PlaceFilter narrows the listing query.
type PlaceFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// List returns places matching the filter, ordered by rating DESC then
// creation time DESC. Search is a case-insensitive substring match on
// name and description.
func (r *PlaceRepository) List(ctx context.Context, filter PlaceFilter) ([]models.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE 1=1`
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY rating DESC, created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}

func (r *PlaceRepository) Get(ctx context.Context, id int) (*models.Place, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+placeColumns+` FROM places WHERE id = $1`, id)
	return scanPlace(row)
}

// GetWithReviews fetches a place and its reviews annotated with the
// reviewer's username and avatar, newest review first.
func (r *PlaceRepository) GetWithReviews(ctx context.Context, id int) (*models.PlaceWithReviews, error) {
	place, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.user_id, r.place_id, r.rating, r.comment, r.created_at,
		       u.username, u.avatar_url
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.place_id = $1
		ORDER BY r.created_at DESC`,
		id)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.PlaceID, &rev.Rating, &rev.Comment,
			&rev.CreatedAt, &rev.Username, &rev.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.PlaceWithReviews{Place: *place, Reviews: reviews}, nil
}

func (r *PlaceRepository) Create(ctx context.Context, p *models.Place) (*models.Place, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO places (name, description, category, latitude, longitude, address, phone, website, image_url, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+placeColumns,
		p.Name, p.Description, p.Category, p.Latitude, p.Longitude,
		p.Address, p.Phone, p.Website, p.ImageURL, p.OwnerID)
	return scanPlace(row)
}

// Update merges the non-nil fields into the stored place.
func (r *PlaceRepository) Update(ctx context.Context, id int, name, description, category *string,
	latitude, longitude *float64, address, phone, website, imageURL *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE places
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    category = COALESCE($3, category),
		    latitude = COALESCE($4, latitude),
		    longitude = COALESCE($5, longitude),
		    address = COALESCE($6, address),
		    phone = COALESCE($7, phone),
		    website = COALESCE($8, website),
		    image_url = COALESCE($9, image_url),
		    updated_at = NOW()
		WHERE id = $10`,
		name, description, category, latitude, longitude, address, phone, website, imageURL, id)
	if err != nil {
		return fmt.Errorf("failed to update place: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddReview inserts a review and recomputes the place rating as the
// rounded mean of all its reviews, in one transaction. A second review
// by the same user for the same place loses against the unique index
// and comes back as ErrDuplicate, even under concurrent requests.
func (r *PlaceRepository) AddReview(ctx context.Context, placeID, userID, rating int, comment string) (*models.Review, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM places WHERE id = $1)`, placeID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check place existence: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	var review models.Review
	err = tx.QueryRow(ctx, `
		INSERT INTO reviews (user_id, place_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, place_id, rating, comment, created_at`,
		userID, placeID, rating, comment).
		Scan(&review.ID, &review.UserID, &review.PlaceID, &review.Rating, &review.Comment, &review.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}

	var avg float64
	if err := tx.QueryRow(ctx, `SELECT AVG(rating) FROM reviews WHERE place_id = $1`, placeID).Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to compute average rating: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE places SET rating = $1, updated_at = NOW() WHERE id = $2`, roundRating(avg), placeID); err != nil {
		return nil, fmt.Errorf("failed to update place rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateError(err)
	}
	return &review, nil
}

// Recommended returns places for the recommendation feed, preferring
// live review averages over the stored rating. Categories narrow the
// result when given.
func (r *PlaceRepository) Recommended(ctx context.Context, categories []string, limit int) ([]models.Place, error) {
	query := `
		SELECT p.id, p.name, p.description, p.category, p.latitude, p.longitude,
		       p.address, p.phone, p.website, p.rating, p.image_url, p.is_premium,
		       p.owner_id, p.created_at, p.updated_at
		FROM places p
		LEFT JOIN reviews r ON p.id = r.place_id`
	args := []any{}

	if len(categories) > 0 {
		args = append(args, categories)
		query += fmt.Sprintf(" WHERE p.category = ANY($%d)", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(`
		GROUP BY p.id
		ORDER BY AVG(r.rating) DESC NULLS LAST, p.rating DESC
		LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommended places: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}

// TopRated returns the best-rated places, optionally narrowed to the
// given categories. Used as route candidates.
func (r *PlaceRepository) TopRated(ctx context.Context, categories []string, limit int) ([]models.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places`
	args := []any{}

	if len(categories) > 0 {
		args = append(args, categories)
		query += fmt.Sprintf(" WHERE category = ANY($%d)", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY rating DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top rated places: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}
