package services

import (
	"math/rand"
	"strings"

	"saratovquest/models"
)

// SystemPrompt is the fixed persona forwarded to the external model.
const SystemPrompt = `Ты - ВОЛГА (Виртуальный Организатор Локальных Городских Активностей), AI-ассистент туристической платформы "Саратов Quest".

Твоя роль:
- Помогать туристам и жителям исследовать Саратов
- Рекомендовать интересные места, рестораны, развлечения
- Составлять персональные маршруты
- Давать советы по бюджету и времени
- Отвечать на любые вопросы о городе

Стиль общения:
- Дружелюбный и энтузиастичный
- Используй эмодзи для живости
- Давай конкретные рекомендации с адресами
- Всегда предлагай несколько вариантов

Отвечай на русском языке, будь полезным и вдохновляющим!`

// FallbackRule pairs a keyword set with its response bucket. Rules are
// evaluated top to bottom and the first match wins, so the category
// choice is deterministic even though the wording is not.
type FallbackRule struct {
	Category  string
	Keywords  []string
	Responses []string
}

var fallbackRules = []FallbackRule{
	{
		Category: "greeting",
		Keywords: []string{"привет", "здравствуй"},
		Responses: []string{
			"Привет! Я Волга, ваш виртуальный помощник по Саратову! Готов помочь вам исследовать наш прекрасный город. Что вас интересует?",
			"Добро пожаловать в Саратов! Меня зовут Волга, и я знаю все самые интересные места города. Чем могу помочь?",
			"Здравствуйте! Волга на связи. Расскажу вам о лучших местах Саратова и помогу составить маршрут. О чем хотите узнать?",
		},
	},
	{
		Category: "food",
		Keywords: []string{"ресторан", "поесть", "еда"},
		Responses: []string{
			"В Саратове много отличных ресторанов! Рекомендую попробовать местную кухню в ресторане 'Волжский берег' или современную европейскую в 'Гастрономе'. А какую кухню предпочитаете?",
			"Для романтического ужина советую ресторан с видом на Волгу. Если хотите что-то более демократичное - множество уютных кафе в центре города. Какой у вас бюджет?",
			"Саратов славится своими рыбными блюдами! Обязательно попробуйте волжскую стерлядь. Могу порекомендовать несколько мест, где её готовят особенно вкусно.",
		},
	},
	{
		Category: "attractions",
		Keywords: []string{"достопримечательност", "посмотреть", "музей"},
		Responses: []string{
			"Главные достопримечательности Саратова: Парк Липки, Набережная Космонавтов, Саратовская консерватория и Радищевский музей. Что вас больше интересует - история, культура или природа?",
			"Обязательно посетите смотровую площадку на Соколовой горе - оттуда открывается потрясающий вид на город и Волгу! А еще рекомендую прогуляться по проспекту Кирова.",
			"В Саратове богатая история! Советую начать с центра города, где сохранились купеческие особняки XIX века. Интересуетесь архитектурой?",
		},
	},
	{
		Category: "weather",
		Keywords: []string{"погода", "дождь", "солнце"},
		Responses: []string{
			"Сегодня отличная погода для прогулок по городу! Рекомендую посетить набережную или один из парков.",
			"Если погода не располагает к прогулкам, советую посетить музеи или торговые центры. В Саратове много интересных крытых локаций!",
			"При любой погоде в Саратове найдется что посмотреть! Дождь - повод зайти в уютное кафе, солнце - прогуляться по набережной.",
		},
	},
	{
		Category: "budget",
		Keywords: []string{"бюджет", "деньги", "дешево"},
		Responses: []string{
			"В Саратове можно отлично провести время с любым бюджетом! Много бесплатных мест: парки, набережная, архитектурные памятники. Какой у вас примерный бюджет на день?",
			"Для экономного отдыха рекомендую: прогулки по центру, посещение бесплатных выставок, пикник в парке. А для комфортного отдыха - рестораны и развлекательные центры.",
			"Студенческий бюджет? Не проблема! В Саратове много доступных кафе, есть льготы в музеях, а природные красоты бесплатны для всех!",
		},
	},
}

const genericResponse = "Интересный вопрос! В Саратове много возможностей для отдыха и развлечений. Могу порекомендовать посетить центр города, набережную или один из парков. А что именно вас интересует - культура, природа, еда или развлечения?"

const premiumGreetingSuffix = " Как Premium пользователь, у вас есть доступ к эксклюзивным рекомендациям!"

// MatchCategory returns the first rule category whose keyword set
// intersects the lowercased message, or "generic".
func MatchCategory(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range fallbackRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return "generic"
}

// FallbackResponse picks a canned answer for the message. The category
// is chosen deterministically by rule order; the wording within the
// bucket is pseudo-random. Premium users get an extended greeting.
func FallbackResponse(message string, isPremium bool) string {
	category := MatchCategory(message)
	if category == "generic" {
		return genericResponse
	}

	for _, rule := range fallbackRules {
		if rule.Category != category {
			continue
		}
		response := rule.Responses[rand.Intn(len(rule.Responses))]
		if category == "greeting" && isPremium {
			response += premiumGreetingSuffix
		}
		return response
	}
	return genericResponse
}

// Suggestions returns the fixed follow-up prompts shown under each
// chat answer.
func Suggestions() []string {
	suggestions := []string{
		"Где поесть в Саратове?",
		"Что посмотреть в городе?",
		"Составь маршрут на день",
		"Посоветуй недорогие места",
		"Где красиво сфотографироваться?",
	}
	return suggestions[:3]
}

// RecommendationMessage builds the advisory line for the
// recommendations payload from the optional context hints.
func RecommendationMessage(timeOfDay, mood string) string {
	var b strings.Builder
	b.WriteString("На основе ваших предпочтений рекомендую: ")

	switch timeOfDay {
	case "morning":
		b.WriteString("Утром лучше всего посетить парки или набережную. ")
	case "evening":
		b.WriteString("Вечером советую рестораны или культурные мероприятия. ")
	}

	switch mood {
	case "active":
		b.WriteString("Для активного отдыха подойдут квесты и прогулки по городу.")
	case "relaxed":
		b.WriteString("Для спокойного отдыха рекомендую кафе и музеи.")
	}

	return b.String()
}

// RouteStop is one leg of a generated walking route.
type RouteStop struct {
	models.Place
	Order         int     `json:"order"`
	EstimatedTime float64 `json:"estimated_time"`
}

// hoursPerStop is the assumed visit-plus-transfer time per place.
const hoursPerStop = 1.5

// distancePerStop is a placeholder: routes report 2 distance units per
// stop instead of a real routing computation.
const distancePerStop = 2

// BuildRoute takes the top floor(duration/1.5) places from the
// rating-ordered candidates and spreads the duration evenly over them.
func BuildRoute(places []models.Place, durationHours int) []RouteStop {
	count := int(float64(durationHours) / hoursPerStop)
	if count > len(places) {
		count = len(places)
	}
	if count <= 0 {
		return []RouteStop{}
	}

	stops := make([]RouteStop, 0, count)
	perStop := float64(durationHours) / float64(count)
	for i, place := range places[:count] {
		stops = append(stops, RouteStop{
			Place:         place,
			Order:         i + 1,
			EstimatedTime: perStop,
		})
	}
	return stops
}

// RouteDistance is the placeholder total distance for a route.
func RouteDistance(stops []RouteStop) int {
	return len(stops) * distancePerStop
}
