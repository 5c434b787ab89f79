// Package export renders admin downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/devmart/internal/model"
)

var leadHeader = []string{"Name", "Email", "Phone", "Subject", "Message", "Source", "Status", "Date"}

// LeadsCSV writes leads as CSV with a header row. csv.Writer quotes values
// that contain a comma, a quote or a newline and doubles embedded quotes.
func LeadsCSV(w io.Writer, leads []model.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(leadHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, lead := range leads {
		record := []string{
			lead.Name,
			lead.Email,
			lead.Phone,
			lead.Subject,
			lead.Message,
			lead.Source,
			lead.Status,
			lead.CreatedAt.UTC().Format(time.DateOnly),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// LeadsFilename 返回下载文件名，例如 devmart-leads-2024-03-01.csv。日期按 UTC 计算，与 CSV 中的 Date 列一致。
func LeadsFilename(now time.Time) string {
	return "devmart-leads-" + now.UTC().Format(time.DateOnly) + ".csv"
}
