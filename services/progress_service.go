package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Jubbyperson/nutrition-chatbot/models"
	"github.com/Jubbyperson/nutrition-chatbot/utils"

	"gorm.io/gorm"
)

type ProgressService struct{ db *gorm.DB }

func NewProgressService(db *gorm.DB) *ProgressService { return &ProgressService{db: db} }

// ---------- Summary ----------

type MacroAvg struct {
	AvgConsumed float64 `json:"avg_consumed"`
	Target      float64 `json:"target,omitempty"`
	AvgPercent  float64 `json:"avg_percent,omitempty"`
	Unit        string  `json:"unit,omitempty"`
}

type ProgressSummary struct {
	Range struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"range"`

	Macros map[string]MacroAvg `json:"macros"` // calories, protein, carbs, fat

	Weight struct {
		FirstLbs  float64 `json:"first_lbs"`
		LatestLbs float64 `json:"latest_lbs"`
		ChangeLbs float64 `json:"change_lbs"`
	} `json:"weight"`

	Metadata struct {
		DaysLogged         int  `json:"days_logged"`
		IncludeMissingDays bool `json:"include_missing_days"`
	} `json:"metadata"`
}

func (s *ProgressService) Summary(
	ctx context.Context, userID uint, from, to time.Time, includeMissing bool,
) (*ProgressSummary, error) {

	var rows []models.DailyLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dayStart(from), dayEnd(to)).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	targets, err := s.targetsSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := map[string]models.DailyLog{}
	for _, r := range rows {
		idx[r.Date.Format("2006-01-02")] = r
	}

	type acc struct{ sum, psum float64 }
	m := map[string]*acc{
		"calories": {}, "protein": {}, "carbs": {}, "fat": {},
	}
	targetFor := map[string]float64{
		"calories": targets.TargetCalories,
		"protein":  targets.ProteinGrams,
		"carbs":    targets.CarbsGrams,
		"fat":      targets.FatGrams,
	}

	var dates []time.Time
	if includeMissing {
		for d := dayStart(from); !d.After(to); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}
	} else {
		for _, r := range rows {
			dates = append(dates, dayStart(r.Date))
		}
	}

	for _, d := range dates {
		dp := idx[d.Format("2006-01-02")] // zero value if not logged
		for k, c := range map[string]float64{
			"calories": dp.Calories,
			"protein":  dp.Protein,
			"carbs":    dp.Carbs,
			"fat":      dp.Fat,
		} {
			m[k].sum += c
			if t := targetFor[k]; t > 0 {
				m[k].psum += (c / t) * 100.0
			}
		}
	}

	out := &ProgressSummary{}
	out.Range.From = from.Format("2006-01-02")
	out.Range.To = to.Format("2006-01-02")
	out.Metadata.DaysLogged = len(rows)
	out.Metadata.IncludeMissingDays = includeMissing

	n := len(dates)
	out.Macros = map[string]MacroAvg{
		"calories": {AvgConsumed: avg(m["calories"].sum, n), Target: round2(targetFor["calories"]), AvgPercent: avg(m["calories"].psum, n), Unit: "kcal"},
		"protein":  {AvgConsumed: avg(m["protein"].sum, n), Target: round2(targetFor["protein"]), AvgPercent: avg(m["protein"].psum, n), Unit: "g"},
		"carbs":    {AvgConsumed: avg(m["carbs"].sum, n), Target: round2(targetFor["carbs"]), AvgPercent: avg(m["carbs"].psum, n), Unit: "g"},
		"fat":      {AvgConsumed: avg(m["fat"].sum, n), Target: round2(targetFor["fat"]), AvgPercent: avg(m["fat"].psum, n), Unit: "g"},
	}

	if len(rows) > 0 {
		out.Weight.FirstLbs = round2(rows[0].WeightLbs)
		out.Weight.LatestLbs = round2(rows[len(rows)-1].WeightLbs)
		out.Weight.ChangeLbs = round2(out.Weight.LatestLbs - out.Weight.FirstLbs)
	}

	return out, nil
}

// ---------- Weekly Overview ----------

type WeeklyOverviewResponse struct {
	WeekStart string `json:"week_start"`
	Mode      string `json:"mode"` // chart|detailed
	Days      any    `json:"days"`
}

type DayChart struct {
	Date        string             `json:"date"`
	Percentages map[string]float64 `json:"percentages"`
}

type Metric struct {
	Actual  float64 `json:"actual"`
	Target  float64 `json:"target"`
	Percent float64 `json:"percent"`
}

type DayDetailed struct {
	Date    string            `json:"date"`
	Metrics map[string]Metric `json:"metrics"`
}

func (s *ProgressService) WeeklyOverview(
	ctx context.Context, userID uint, weekStart time.Time, mode string,
) (*WeeklyOverviewResponse, error) {

	if mode != "chart" && mode != "detailed" {
		return nil, errors.New("mode must be 'chart' or 'detailed'")
	}

	from := dayStart(weekStart)
	to := from.AddDate(0, 0, 6)

	var rows []models.DailyLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, dayEnd(to)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	idx := map[string]models.DailyLog{}
	for _, r := range rows {
		idx[r.Date.Format("2006-01-02")] = r
	}

	targets, err := s.targetsSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &WeeklyOverviewResponse{
		WeekStart: from.Format("2006-01-02"),
		Mode:      mode,
	}

	if mode == "chart" {
		var days []DayChart
		for i := 0; i < 7; i++ {
			d := from.AddDate(0, 0, i)
			key := d.Format("2006-01-02")
			dp := idx[key]
			days = append(days, DayChart{
				Date: key,
				Percentages: map[string]float64{
					"calories": pct(dp.Calories, targets.TargetCalories),
					"protein":  pct(dp.Protein, targets.ProteinGrams),
					"carbs":    pct(dp.Carbs, targets.CarbsGrams),
					"fat":      pct(dp.Fat, targets.FatGrams),
				},
			})
		}
		out.Days = days
		return out, nil
	}

	var days []DayDetailed
	for i := 0; i < 7; i++ {
		d := from.AddDate(0, 0, i)
		key := d.Format("2006-01-02")
		dp := idx[key]
		days = append(days, DayDetailed{
			Date: key,
			Metrics: map[string]Metric{
				"calories":  {Actual: round2(dp.Calories), Target: round2(targets.TargetCalories), Percent: pct(dp.Calories, targets.TargetCalories)},
				"protein_g": {Actual: round2(dp.Protein), Target: round2(targets.ProteinGrams), Percent: pct(dp.Protein, targets.ProteinGrams)},
				"carbs_g":   {Actual: round2(dp.Carbs), Target: round2(targets.CarbsGrams), Percent: pct(dp.Carbs, targets.CarbsGrams)},
				"fat_g":     {Actual: round2(dp.Fat), Target: round2(targets.FatGrams), Percent: pct(dp.Fat, targets.FatGrams)},
				"weight_lb": {Actual: round2(dp.WeightLbs)},
			},
		})
	}
	out.Days = days
	return out, nil
}

// ---------- internals ----------

// targetsSnapshot computes the user's current macro targets. Users with an
// incomplete profile get zero targets, which suppresses percentages.
func (s *ProgressService) targetsSnapshot(ctx context.Context, userID uint) (*utils.Profile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &utils.Profile{}, nil
		}
		return nil, err
	}
	profile, err := utils.CalculateProfile(
		user.WeightLbs, user.HeightInches, user.Age,
		user.Sex, user.ActivityLevel, user.Goal,
	)
	if err != nil {
		return &utils.Profile{}, nil
	}
	return profile, nil
}

// pct suppresses percentages when targets are unknown, matching Summary.
func pct(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return round2((actual / target) * 100.0)
}

func avg(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return round2(sum / float64(n))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
