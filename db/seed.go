package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts the achievement catalog and a starter set of Saratov
// places and quests. Every insert is idempotent, so seeding runs on
// each startup.
func Seed(ctx context.Context, database *Database) error {
	pool := database.Pool()

	if err := seedAchievements(ctx, pool); err != nil {
		return err
	}
	if err := seedPlaces(ctx, pool); err != nil {
		return err
	}
	if err := seedQuests(ctx, pool); err != nil {
		return err
	}

	log.Println("Seed data in place")
	return nil
}

func seedAchievements(ctx context.Context, pool *pgxpool.Pool) error {
	achievements := []struct {
		name, description, icon string
		pointsRequired          int
	}{
		{"Первые шаги", "Зарегистрировались в приложении", "🎯", 0},
		{"Исследователь", "Посетили 5 мест", "🗺️", 50},
		{"Гурман", "Посетили 10 ресторанов", "🍽️", 100},
		{"Знаток Саратова", "Набрали 500 баллов", "🏆", 500},
		{"Мастер квестов", "Выполнили 20 квестов", "⭐", 200},
	}

	for _, a := range achievements {
		_, err := pool.Exec(ctx, `
			INSERT INTO achievements (name, description, icon, points_required)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING`,
			a.name, a.description, a.icon, a.pointsRequired)
		if err != nil {
			return fmt.Errorf("failed to seed achievement %q: %w", a.name, err)
		}
	}
	return nil
}

func seedPlaces(ctx context.Context, pool *pgxpool.Pool) error {
	places := []struct {
		name, description, category, address string
		latitude, longitude, rating          float64
	}{
		{"Парк Липки", "Старейший парк Саратова с красивыми аллеями", "park",
			"ул. Радищева, Саратов", 51.533562, 46.034266, 4.5},
		{"Саратовская консерватория", "Знаменитая консерватория имени Л.В. Собинова", "culture",
			"пр. Кирова, 1, Саратов", 51.533333, 46.008889, 4.8},
		{"Набережная Космонавтов", "Живописная набережная Волги", "attraction",
			"Набережная Космонавтов, Саратов", 51.520833, 46.030556, 4.6},
	}

	for _, p := range places {
		_, err := pool.Exec(ctx, `
			INSERT INTO places (name, description, category, latitude, longitude, address, rating)
			SELECT $1, $2, $3, $4, $5, $6, $7
			WHERE NOT EXISTS (SELECT 1 FROM places WHERE name = $1)`,
			p.name, p.description, p.category, p.latitude, p.longitude, p.address, p.rating)
		if err != nil {
			return fmt.Errorf("failed to seed place %q: %w", p.name, err)
		}
	}
	return nil
}

func seedQuests(ctx context.Context, pool *pgxpool.Pool) error {
	quests := []struct {
		title, description, category, placeName string
		pointsReward, difficulty                int
	}{
		{"Прогулка по Липкам", "Посетите старейший парк города и сделайте фото у фонтана",
			"walk", "Парк Липки", 20, 1},
		{"Культурный вечер", "Посетите концерт в консерватории",
			"culture", "Саратовская консерватория", 50, 2},
		{"Волжские виды", "Прогуляйтесь по набережной и насладитесь видом на Волгу",
			"nature", "Набережная Космонавтов", 30, 1},
	}

	for _, q := range quests {
		_, err := pool.Exec(ctx, `
			INSERT INTO quests (title, description, category, points_reward, difficulty, place_id)
			SELECT $1, $2, $3, $4, $5, (SELECT id FROM places WHERE name = $6)
			WHERE NOT EXISTS (SELECT 1 FROM quests WHERE title = $1)`,
			q.title, q.description, q.category, q.pointsReward, q.difficulty, q.placeName)
		if err != nil {
			return fmt.Errorf("failed to seed quest %q: %w", q.title, err)
		}
	}
	return nil
}
