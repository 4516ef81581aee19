package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"gorm.io/gorm"
)

// nameLikeClause matches name case-insensitively anywhere in the string.
// The backslash escape is spelled out because SQLite has no default one.
const nameLikeClause = "LOWER(name) LIKE ? ESCAPE '\\'"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds the LIKE argument for a case-insensitive substring
// match. LIKE wildcards typed by the user are matched literally. An empty
// term yields "%%", which matches every row.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// countUpcomingShows returns, per owner id, how many shows start strictly
// after now. ownerColumn is either venue_id or artist_id.
func countUpcomingShows(ctx context.Context, db *gorm.DB, ownerColumn string, ids []uint, now time.Time) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	type countRow struct {
		OwnerID uint
		Total   int64
	}

	var rows []countRow
	if err := db.WithContext(ctx).Model(&model.Show{}).
		Select(ownerColumn+" AS owner_id, COUNT(*) AS total").
		Where(ownerColumn+" IN ?", ids).
		Where("start_time > ?", now).
		Group(ownerColumn).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.OwnerID] = row.Total
	}
	return counts, nil
}
