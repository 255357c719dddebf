package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Jubbyperson/nutrition-chatbot/models"
	"github.com/Jubbyperson/nutrition-chatbot/utils"
)

const defaultCoachModel = "gpt-4-turbo-preview"

// CoachService wraps the OpenAI chat-completions API. All intelligence
// lives upstream; this side builds prompts from user data and parses the
// returned text, with deterministic fallbacks when the API misbehaves.
type CoachService struct {
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
}

func NewCoachService() *CoachService {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultCoachModel
	}
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &CoachService{
		client:  &http.Client{Timeout: 60 * time.Second},
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string        `json:"model"`
	Messages       []ChatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete runs one chat completion and returns the text of the first
// choice. jsonMode asks the model for a JSON object response.
func (s *CoachService) complete(ctx context.Context, messages []ChatMessage, temperature float64, maxTokens int, jsonMode bool) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	reqBody := chatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	if jsonMode {
		reqBody.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read OpenAI response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Surface the upstream error body; OpenAI returns {"error":{"message":...}}
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBytes, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("openai api error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("openai api error (%d): %s", resp.StatusCode, string(respBytes))
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty completion from openai")
	}
	return out.Choices[0].Message.Content, nil
}

// ---------- Personalized advice ----------

type Advice struct {
	MealPlan      string `json:"meal_plan"`
	NutritionTips string `json:"nutrition_tips"`
	LifestyleTips string `json:"lifestyle_tips"`
}

func advicePrompt(p *utils.Profile, goal string) (system, user string) {
	system = fmt.Sprintf(`You are a personalized nutrition coach providing tailored advice based on the user's specific profile.

User Profile:
- Weight: %.0f lbs
- Height: %.0f inches
- Age: %d years
- Sex: %s
- Activity Level: %s
- Goal: %s

Daily Targets (MUST BE FOLLOWED EXACTLY):
- Calories: %.0f calories (this is your PRIMARY target)
- Protein: %.0fg
- Carbs: %.0fg
- Fat: %.0fg
- Water: %.0foz

Provide advice in these sections:
1. Meal Plan (with specific calorie amounts that MUST total %.0f calories)
2. Nutrition Tips
3. Lifestyle Tips

Rules:
- The meal plan MUST total exactly %.0f calories
- Each meal should include protein
- Portion sizes should be appropriate for the user's stats
- Keep advice simple and actionable
- Focus on the user's specific goal: %s`,
		p.WeightLbs, p.HeightInches, p.Age, p.Sex, p.ActivityLevel, goal,
		p.TargetCalories, p.ProteinGrams, p.CarbsGrams, p.FatGrams, p.WaterOz,
		p.TargetCalories, p.TargetCalories, goal)

	user = fmt.Sprintf(`Please provide a personalized meal plan for:
- A %d-year-old %s
- Weighing %.0f lbs
- With %s activity level
- Goal: %s
- Target: %.0f calories daily

The meal plan should:
1. Total exactly %.0f calories
2. Include %.0fg protein
3. Have appropriate portion sizes for this person
4. Be realistic and achievable`,
		p.Age, p.Sex, p.WeightLbs, p.ActivityLevel, goal,
		p.TargetCalories, p.TargetCalories, p.ProteinGrams)

	return system, user
}

// PersonalizedAdvice asks the model for a full plan split into sections.
// Empty sections (and API failures) get deterministic fallback content
// derived from the computed targets, so the endpoint always answers.
func (s *CoachService) PersonalizedAdvice(ctx context.Context, p *utils.Profile, goal string) (*Advice, error) {
	system, user := advicePrompt(p, goal)

	text, err := s.complete(ctx, []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, 0.7, 1000, false)
	if err != nil {
		return fallbackAdvice(p), nil
	}

	advice := parseAdviceSections(text)
	fb := fallbackAdvice(p)
	if strings.TrimSpace(advice.MealPlan) == "" {
		advice.MealPlan = fb.MealPlan
	}
	if strings.TrimSpace(advice.NutritionTips) == "" {
		advice.NutritionTips = fb.NutritionTips
	}
	if strings.TrimSpace(advice.LifestyleTips) == "" {
		advice.LifestyleTips = fb.LifestyleTips
	}
	return advice, nil
}

// parseAdviceSections splits the model text by heading detection: a line
// mentioning MEAL PLAN / NUTRITION / LIFESTYLE starts the matching section.
func parseAdviceSections(text string) *Advice {
	advice := &Advice{}
	var current *string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		switch {
		case strings.Contains(upper, "MEAL PLAN"):
			current = &advice.MealPlan
		case strings.Contains(upper, "NUTRITION"):
			current = &advice.NutritionTips
		case strings.Contains(upper, "LIFESTYLE"):
			current = &advice.LifestyleTips
		default:
			if current != nil {
				*current += line + "\n"
			}
		}
	}
	return advice
}

func fallbackAdvice(p *utils.Profile) *Advice {
	// 25/30/30/15 split across breakfast/lunch/dinner/snacks
	breakfast := p.TargetCalories * 0.25
	lunch := p.TargetCalories * 0.30
	dinner := p.TargetCalories * 0.30
	snacks := p.TargetCalories * 0.15

	mealPlan := fmt.Sprintf(`Here's a personalized meal plan for your stats:

Breakfast (%.0f calories):
- 2 eggs with 1 slice whole grain toast
- Greek yogurt with berries
- Adjust portions to reach %.0f calories

Lunch (%.0f calories):
- Grilled protein (chicken/fish) with vegetables
- 1 serving of whole grains
- Adjust portions to reach %.0f calories

Dinner (%.0f calories):
- Lean protein with vegetables
- 1 serving of whole grains
- Adjust portions to reach %.0f calories

Snacks (%.0f calories):
- Protein-rich snacks
- Fruits and nuts
- Adjust portions to reach %.0f calories

Total: %.0f calories
Protein: %.0fg
Carbs: %.0fg
Fat: %.0fg`,
		breakfast, breakfast, lunch, lunch, dinner, dinner, snacks, snacks,
		p.TargetCalories, p.ProteinGrams, p.CarbsGrams, p.FatGrams)

	nutritionTips := fmt.Sprintf(`• Eat exactly %.0f calories daily
• Get %.0fg of protein
• Include %.0fg of carbs
• Add %.0fg of healthy fats
• Drink %.0foz of water
• Eat every 3-4 hours
• Include protein in every meal
• Adjust portions based on your activity level: %s`,
		p.TargetCalories, p.ProteinGrams, p.CarbsGrams, p.FatGrams, p.WaterOz, p.ActivityLevel)

	lifestyleTips := fmt.Sprintf(`• Get 7-8 hours of sleep
• Stay consistent with your %s activity level
• Manage stress
• Stay hydrated with %.0foz of water daily
• Track your progress
• Adjust portions if needed based on your weight changes`,
		p.ActivityLevel, p.WaterOz)

	return &Advice{MealPlan: mealPlan, NutritionTips: nutritionTips, LifestyleTips: lifestyleTips}
}

// ---------- Meal suggestion ----------

type MealSuggestion struct {
	Name         string   `json:"name"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	PrepTime     string   `json:"prep_time"`
	Difficulty   string   `json:"difficulty"` // easy|medium|hard
}

// SuggestMeal asks for a single recipe in JSON mode. Targets assume 3 main
// meals + 2 snacks, so each slot gets a fifth of the daily numbers.
func (s *CoachService) SuggestMeal(ctx context.Context, p *utils.Profile, mealType string, preferences map[string]string) (*MealSuggestion, error) {
	mealCalories := p.TargetCalories / 5
	mealProtein := p.ProteinGrams / 5
	mealCarbs := p.CarbsGrams / 5
	mealFat := p.FatGrams / 5

	system := fmt.Sprintf(`You are an expert nutritionist and chef. Create a %s recipe that meets these nutritional targets:
- Calories: %.0f
- Protein: %.1fg
- Carbs: %.1fg
- Fat: %.1fg

The recipe should be:
1. Easy to prepare
2. Use common ingredients
3. Be delicious and satisfying
4. Fit into a healthy diet

Format the response as a JSON object with these fields:
- name: string
- calories: number
- protein: number
- carbs: number
- fat: number
- ingredients: array of strings
- instructions: string
- prep_time: string
- difficulty: string (easy/medium/hard)`,
		mealType, mealCalories, mealProtein, mealCarbs, mealFat)

	if len(preferences) > 0 {
		var sb strings.Builder
		sb.WriteString("\n\nConsider these preferences and restrictions:\n")
		for k, v := range preferences {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", k, v))
		}
		system += sb.String()
	}

	text, err := s.complete(ctx, []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: fmt.Sprintf("Please suggest a %s recipe.", mealType)},
	}, 0.7, 0, true)
	if err == nil {
		var meal MealSuggestion
		if jsonErr := json.Unmarshal([]byte(text), &meal); jsonErr == nil && meal.Name != "" {
			return &meal, nil
		}
	}

	// fallback: a balanced per-meal split of the daily targets
	return &MealSuggestion{
		Name:         "Simple Balanced Meal",
		Calories:     round2(mealCalories),
		Protein:      round2(mealProtein),
		Carbs:        round2(mealCarbs),
		Fat:          round2(mealFat),
		Ingredients:  []string{"Protein source", "Complex carbs", "Vegetables", "Healthy fats"},
		Instructions: "Combine ingredients in balanced portions.",
		PrepTime:     "15 minutes",
		Difficulty:   "easy",
	}, nil
}

// ---------- Progress analysis ----------

type ProgressAnalysis struct {
	Summary         string `json:"summary"`
	Recommendations string `json:"recommendations"`
}

// AnalyzeProgress is deliberately local arithmetic, not an API call: the
// numbers already tell the story and the endpoint stays cheap and exact.
func (s *CoachService) AnalyzeProgress(p *utils.Profile, logs []models.DailyLog) *ProgressAnalysis {
	if len(logs) == 0 {
		return &ProgressAnalysis{
			Summary:         "No logs available for analysis. Start logging your meals to get feedback.",
			Recommendations: "Begin tracking your daily nutrition to see your progress.",
		}
	}

	var sumCalories, sumProtein float64
	for _, l := range logs {
		sumCalories += l.Calories
		sumProtein += l.Protein
	}
	avgCalories := sumCalories / float64(len(logs))
	avgProtein := sumProtein / float64(len(logs))
	weightChange := logs[len(logs)-1].WeightLbs - logs[0].WeightLbs

	calorieVerb := "Maintain"
	if avgCalories < p.TargetCalories {
		calorieVerb = "Increase"
	}
	proteinVerb := "Maintain"
	if avgProtein < p.ProteinGrams {
		proteinVerb = "Increase"
	}
	approachVerb := "Adjust"
	if weightChange > 0 {
		approachVerb = "Continue"
	}

	return &ProgressAnalysis{
		Summary: fmt.Sprintf(`Progress Summary:
• Average daily calories: %.0f calories
• Average protein intake: %.0fg
• Weight change: %+.1f lbs
• Target calories: %.0f calories`,
			avgCalories, avgProtein, weightChange, p.TargetCalories),
		Recommendations: fmt.Sprintf(`Recommendations:
• %s calorie intake to reach %.0f calories
• %s protein intake to reach %.0fg
• %s current approach based on weight change`,
			calorieVerb, p.TargetCalories, proteinVerb, p.ProteinGrams, approachVerb),
	}
}

// ---------- Quick tip ----------

const quickTipFallback = "Focus on staying hydrated and eating regular, balanced meals throughout the day."

func (s *CoachService) QuickTip(ctx context.Context, p *utils.Profile, goal string) string {
	system := fmt.Sprintf(`You are a nutrition coach. Provide ONE specific, actionable tip for a user with:
Goal: %s
Daily Calories: %.0f
Daily Protein: %.0fg
Daily Carbs: %.0fg
Daily Fat: %.0fg

The tip should be:
1. Specific and actionable
2. Relevant to their goals
3. Easy to implement today
4. No more than 2 sentences`,
		goal, p.TargetCalories, p.ProteinGrams, p.CarbsGrams, p.FatGrams)

	text, err := s.complete(ctx, []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: "Give me one quick tip I can implement today."},
	}, 0.7, 100, false)
	if err != nil {
		return quickTipFallback
	}
	return strings.TrimSpace(text)
}

// ---------- Free-form chat ----------

// ChatReply answers one user message within a coach conversation. The
// profile-derived system prompt anchors every turn; history carries the
// session so far.
func (s *CoachService) ChatReply(ctx context.Context, p *utils.Profile, goal string, history []ChatMessage, userMsg string) (string, error) {
	system := fmt.Sprintf(`You are NutriChat, a friendly nutrition coach. Keep answers short and practical.

The user you are coaching:
- %d-year-old %s, %.0f lbs, %.0f inches
- Activity level: %s, goal: %s
- Daily targets: %.0f calories, %.0fg protein, %.0fg carbs, %.0fg fat, %.0foz water

Ground every answer in these targets.`,
		p.Age, p.Sex, p.WeightLbs, p.HeightInches, p.ActivityLevel, goal,
		p.TargetCalories, p.ProteinGrams, p.CarbsGrams, p.FatGrams, p.WaterOz)

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: system})
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{Role: "user", Content: userMsg})

	return s.complete(ctx, messages, 0.7, 500, false)
}
