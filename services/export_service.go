package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/Jubbyperson/nutrition-chatbot/utils"

	"github.com/google/uuid"
)

// ExportLogsCSV renders a user's logs for the range as CSV, uploads the
// file to S3 and returns a presigned download URL.
func ExportLogsCSV(ctx context.Context, userID uint, from, to time.Time) (string, error) {
	logs, err := ListLogs(userID, from, to)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"date", "weight_lbs", "calories", "protein_g", "carbs_g", "fat_g"}); err != nil {
		return "", err
	}
	for _, l := range logs {
		record := []string{
			l.Date.Format("2006-01-02"),
			strconv.FormatFloat(l.WeightLbs, 'f', 1, 64),
			strconv.FormatFloat(l.Calories, 'f', 0, 64),
			strconv.FormatFloat(l.Protein, 'f', 0, 64),
			strconv.FormatFloat(l.Carbs, 'f', 0, 64),
			strconv.FormatFloat(l.Fat, 'f', 0, 64),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/%d/%s.csv", userID, uuid.NewString())
	return utils.UploadObject(ctx, key, buf.Bytes(), "text/csv")
}
