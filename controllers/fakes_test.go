package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"saratovquest/db"
	"saratovquest/middlewares"
	"saratovquest/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// authAs injects an authenticated caller the way the auth middleware
// would, without a real token.
func authAs(userID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.ContextUserID, userID)
		c.Next()
	}
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// Fake stores for handler tests. Unset funcs fall back to harmless
// defaults so each test only wires what it exercises.

type fakeUserStore struct {
	createFunc     func(ctx context.Context, username, email, passwordHash, fullName string) (*models.User, error)
	existsFunc     func(ctx context.Context, username, email string) (bool, error)
	getByIDFunc    func(ctx context.Context, id int) (*models.User, error)
	getByLoginFunc func(ctx context.Context, login string) (*models.User, error)
	updateFunc     func(ctx context.Context, id int, fullName, avatarURL *string) error
	statsFunc      func(ctx context.Context, id int) (*models.UserStats, error)
	lbFunc         func(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, error)
	rankFunc       func(ctx context.Context, id int) (int, int, error)
	activityFunc   func(ctx context.Context, id, limit int) ([]models.Activity, error)
}

func (f *fakeUserStore) Create(ctx context.Context, username, email, passwordHash, fullName string) (*models.User, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, username, email, passwordHash, fullName)
	}
	return &models.User{ID: 1, Username: username, Email: email, PasswordHash: passwordHash, FullName: fullName, Level: 1}, nil
}

func (f *fakeUserStore) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if f.existsFunc != nil {
		return f.existsFunc(ctx, username, email)
	}
	return false, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return &models.User{ID: id, Username: "tourist", Level: 1}, nil
}

func (f *fakeUserStore) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	if f.getByLoginFunc != nil {
		return f.getByLoginFunc(ctx, login)
	}
	return nil, db.ErrNotFound
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, id int, fullName, avatarURL *string) error {
	if f.updateFunc != nil {
		return f.updateFunc(ctx, id, fullName, avatarURL)
	}
	return nil
}

func (f *fakeUserStore) Stats(ctx context.Context, id int) (*models.UserStats, error) {
	if f.statsFunc != nil {
		return f.statsFunc(ctx, id)
	}
	return &models.UserStats{}, nil
}

func (f *fakeUserStore) Leaderboard(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, error) {
	if f.lbFunc != nil {
		return f.lbFunc(ctx, limit, offset)
	}
	return []models.LeaderboardEntry{}, nil
}

func (f *fakeUserStore) Rank(ctx context.Context, id int) (int, int, error) {
	if f.rankFunc != nil {
		return f.rankFunc(ctx, id)
	}
	return 1, 1, nil
}

func (f *fakeUserStore) Activity(ctx context.Context, id, limit int) ([]models.Activity, error) {
	if f.activityFunc != nil {
		return f.activityFunc(ctx, id, limit)
	}
	return []models.Activity{}, nil
}

type fakePlaceStore struct {
	listFunc      func(ctx context.Context, filter db.PlaceFilter) ([]models.Place, error)
	getFunc       func(ctx context.Context, id int) (*models.Place, error)
	getFullFunc   func(ctx context.Context, id int) (*models.PlaceWithReviews, error)
	createFunc    func(ctx context.Context, p *models.Place) (*models.Place, error)
	updateFunc    func(ctx context.Context, id int, name, description, category *string, latitude, longitude *float64, address, phone, website, imageURL *string) error
	addReviewFunc func(ctx context.Context, placeID, userID, rating int, comment string) (*models.Review, error)
}

func (f *fakePlaceStore) List(ctx context.Context, filter db.PlaceFilter) ([]models.Place, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, filter)
	}
	return []models.Place{}, nil
}

func (f *fakePlaceStore) Get(ctx context.Context, id int) (*models.Place, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, id)
	}
	return nil, db.ErrNotFound
}

func (f *fakePlaceStore) GetWithReviews(ctx context.Context, id int) (*models.PlaceWithReviews, error) {
	if f.getFullFunc != nil {
		return f.getFullFunc(ctx, id)
	}
	return nil, db.ErrNotFound
}

func (f *fakePlaceStore) Create(ctx context.Context, p *models.Place) (*models.Place, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, p)
	}
	created := *p
	created.ID = 1
	return &created, nil
}

func (f *fakePlaceStore) Update(ctx context.Context, id int, name, description, category *string, latitude, longitude *float64, address, phone, website, imageURL *string) error {
	if f.updateFunc != nil {
		return f.updateFunc(ctx, id, name, description, category, latitude, longitude, address, phone, website, imageURL)
	}
	return nil
}

func (f *fakePlaceStore) AddReview(ctx context.Context, placeID, userID, rating int, comment string) (*models.Review, error) {
	if f.addReviewFunc != nil {
		return f.addReviewFunc(ctx, placeID, userID, rating, comment)
	}
	return &models.Review{ID: 1, PlaceID: placeID, UserID: userID, Rating: rating, Comment: comment}, nil
}

type fakeQuestStore struct {
	listFunc        func(ctx context.Context, filter db.QuestFilter) ([]models.Quest, error)
	getFunc         func(ctx context.Context, id int) (*models.Quest, error)
	myCompletedFunc func(ctx context.Context, userID int) ([]models.CompletedQuest, error)
	myAvailableFunc func(ctx context.Context, userID int) ([]models.Quest, error)
	completeFunc    func(ctx context.Context, questID, userID int) (*models.Quest, int, error)
	createFunc      func(ctx context.Context, q *models.Quest) (*models.Quest, error)
	statsFunc       func(ctx context.Context, userID int) (*models.QuestStats, error)
	categoriesFunc  func(ctx context.Context, userID int) ([]models.CategoryCount, error)
}

func (f *fakeQuestStore) List(ctx context.Context, filter db.QuestFilter) ([]models.Quest, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, filter)
	}
	return []models.Quest{}, nil
}

func (f *fakeQuestStore) Get(ctx context.Context, id int) (*models.Quest, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, id)
	}
	return nil, db.ErrNotFound
}

func (f *fakeQuestStore) MyCompleted(ctx context.Context, userID int) ([]models.CompletedQuest, error) {
	if f.myCompletedFunc != nil {
		return f.myCompletedFunc(ctx, userID)
	}
	return []models.CompletedQuest{}, nil
}

func (f *fakeQuestStore) MyAvailable(ctx context.Context, userID int) ([]models.Quest, error) {
	if f.myAvailableFunc != nil {
		return f.myAvailableFunc(ctx, userID)
	}
	return []models.Quest{}, nil
}

func (f *fakeQuestStore) Complete(ctx context.Context, questID, userID int) (*models.Quest, int, error) {
	if f.completeFunc != nil {
		return f.completeFunc(ctx, questID, userID)
	}
	return nil, 0, db.ErrNotFound
}

func (f *fakeQuestStore) Create(ctx context.Context, q *models.Quest) (*models.Quest, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, q)
	}
	created := *q
	created.ID = 1
	created.IsActive = true
	return &created, nil
}

func (f *fakeQuestStore) Stats(ctx context.Context, userID int) (*models.QuestStats, error) {
	if f.statsFunc != nil {
		return f.statsFunc(ctx, userID)
	}
	return &models.QuestStats{}, nil
}

func (f *fakeQuestStore) CategoryCounts(ctx context.Context, userID int) ([]models.CategoryCount, error) {
	if f.categoriesFunc != nil {
		return f.categoriesFunc(ctx, userID)
	}
	return []models.CategoryCount{}, nil
}

type fakeAchievementStore struct {
	catalogFunc func(ctx context.Context) ([]models.Achievement, error)
	earnedFunc  func(ctx context.Context, userID int) ([]models.EarnedAchievement, error)
}

func (f *fakeAchievementStore) Catalog(ctx context.Context) ([]models.Achievement, error) {
	if f.catalogFunc != nil {
		return f.catalogFunc(ctx)
	}
	return []models.Achievement{}, nil
}

func (f *fakeAchievementStore) EarnedBy(ctx context.Context, userID int) ([]models.EarnedAchievement, error) {
	if f.earnedFunc != nil {
		return f.earnedFunc(ctx, userID)
	}
	return []models.EarnedAchievement{}, nil
}

type fakeSubscriptionStore struct {
	activateFunc func(ctx context.Context, userID int, planType string, price int) (*models.BusinessSubscription, error)
}

func (f *fakeSubscriptionStore) Activate(ctx context.Context, userID int, planType string, price int) (*models.BusinessSubscription, error) {
	if f.activateFunc != nil {
		return f.activateFunc(ctx, userID, planType, price)
	}
	return &models.BusinessSubscription{ID: 1, UserID: userID, PlanType: planType, Price: price, IsActive: true}, nil
}

type fakePlaceRecommender struct {
	recommendedFunc func(ctx context.Context, categories []string, limit int) ([]models.Place, error)
	topRatedFunc    func(ctx context.Context, categories []string, limit int) ([]models.Place, error)
}

func (f *fakePlaceRecommender) Recommended(ctx context.Context, categories []string, limit int) ([]models.Place, error) {
	if f.recommendedFunc != nil {
		return f.recommendedFunc(ctx, categories, limit)
	}
	return []models.Place{}, nil
}

func (f *fakePlaceRecommender) TopRated(ctx context.Context, categories []string, limit int) ([]models.Place, error) {
	if f.topRatedFunc != nil {
		return f.topRatedFunc(ctx, categories, limit)
	}
	return []models.Place{}, nil
}

type fakeQuestRecommender struct {
	preferencesFunc func(ctx context.Context, userID int) ([]models.UserPreference, error)
	recommendedFunc func(ctx context.Context, userID, limit int) ([]models.Quest, error)
}

func (f *fakeQuestRecommender) Preferences(ctx context.Context, userID int) ([]models.UserPreference, error) {
	if f.preferencesFunc != nil {
		return f.preferencesFunc(ctx, userID)
	}
	return []models.UserPreference{}, nil
}

func (f *fakeQuestRecommender) Recommended(ctx context.Context, userID, limit int) ([]models.Quest, error) {
	if f.recommendedFunc != nil {
		return f.recommendedFunc(ctx, userID, limit)
	}
	return []models.Quest{}, nil
}
