// Package services holds the domain rules that do not touch storage:
// progression math, achievement partitioning and the assistant.
package services

import "saratovquest/models"

// PointsPerLevel is the point cost of each level step.
const PointsPerLevel = 100

// LevelForPoints derives the level from a point total. Levels start at
// 1 and grow by one per PointsPerLevel.
func LevelForPoints(points int) int {
	if points < 0 {
		return 1
	}
	return points/PointsPerLevel + 1
}

// AchievementPartition splits the catalog for a user: earned rows
// exist, available ones are reachable with the current points but not
// recorded, locked ones are not yet reachable. Every catalog entry
// lands in exactly one bucket.
type AchievementPartition struct {
	Earned    []models.EarnedAchievement `json:"earned"`
	Available []models.Achievement       `json:"available"`
	Locked    []models.Achievement       `json:"locked"`
}

// PartitionAchievements computes the partition. It never awards
// anything: crossing a threshold moves an achievement to available,
// and only an explicit user_achievements row moves it to earned.
func PartitionAchievements(catalog []models.Achievement, earned []models.EarnedAchievement, userPoints int) AchievementPartition {
	earnedIDs := make(map[int]bool, len(earned))
	for _, e := range earned {
		earnedIDs[e.ID] = true
	}

	partition := AchievementPartition{
		Earned:    earned,
		Available: []models.Achievement{},
		Locked:    []models.Achievement{},
	}
	if partition.Earned == nil {
		partition.Earned = []models.EarnedAchievement{}
	}

	for _, a := range catalog {
		if earnedIDs[a.ID] {
			continue
		}
		if userPoints >= a.PointsRequired {
			partition.Available = append(partition.Available, a)
		} else {
			partition.Locked = append(partition.Locked, a)
		}
	}
	return partition
}

// LeaderboardLess reports whether a ranks strictly ahead of b:
// points descending, then level descending, then id ascending. The id
// tiebreak makes this a strict total order over distinct users.
func LeaderboardLess(a, b models.LeaderboardEntry) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.Level != b.Level {
		return a.Level > b.Level
	}
	return a.ID < b.ID
}
