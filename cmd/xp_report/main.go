// cmd/xp_report/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"course_quest/internal/config"
	"course_quest/internal/timeutil"

	"github.com/lib/pq"
)

// 集計用の読み取り専用レポートです。XP上位のユーザーと現在の連続日数を表示します。
// 例: go run ./cmd/xp_report -limit=20 -roles=student

// reportRow はレポート1行分です。
type reportRow struct {
	Name          string
	Email         string
	Role          string
	XPPoints      int
	Badges        int
	LastActive    sql.NullTime
	StoredStreak  sql.NullInt64
	CurrentStreak int
}

const topUsersQuery = `
SELECT u.name, u.email, u.role, u.xp_points,
       (SELECT COUNT(*) FROM user_badges ub WHERE ub.user_id = u.user_id) AS badges,
       a.activity_date, a.current_streak
FROM users u
LEFT JOIN LATERAL (
    SELECT ar.activity_date, ar.current_streak
    FROM activity_records ar
    WHERE ar.user_id = u.user_id AND ar.is_active_day
    ORDER BY ar.activity_date DESC
    LIMIT 1
) a ON TRUE
WHERE u.role = ANY($1)
ORDER BY u.xp_points DESC, u.name
LIMIT $2`

func main() {
	limit := flag.Int("limit", 10, "number of users to show")
	roles := flag.String("roles", "student", "comma separated roles to include")
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	if err := config.LoadConfig(*configDir); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = config.Cfg.Database.URL
	}
	loc, err := config.Cfg.App.Location()
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", config.Cfg.App.Timezone, err)
	}

	// database/sql + lib/pq で接続 (GORM を使わない読み取り専用の集計)
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	today := timeutil.Today(timeutil.NewSystemClock(loc))
	rows, err := topUsers(ctx, db, splitRoles(*roles), *limit, today)
	if err != nil {
		log.Fatalf("Failed to build report: %v", err)
	}

	fmt.Printf("XP report (%s, %s)\n\n", today.Format("2006-01-02"), loc)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tEMAIL\tROLE\tXP\tBADGES\tSTREAK\tLAST ACTIVE")
	for i, r := range rows {
		last := "-"
		if r.LastActive.Valid {
			last = r.LastActive.Time.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			i+1, r.Name, r.Email, r.Role, r.XPPoints, r.Badges, r.CurrentStreak, last)
	}
	w.Flush()
}

// topUsers はXPの降順でユーザーを取得し、現在の連続日数を計算します。
func topUsers(ctx context.Context, db *sql.DB, roles []string, limit int, today time.Time) ([]reportRow, error) {
	rows, err := db.QueryContext(ctx, topUsersQuery, pq.Array(roles), limit)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return nil, fmt.Errorf("topUsers query (%s): %w", pqErr.Code.Name(), err)
		}
		return nil, fmt.Errorf("topUsers query: %w", err)
	}
	defer rows.Close()

	var result []reportRow
	for rows.Next() {
		var r reportRow
		if err := rows.Scan(&r.Name, &r.Email, &r.Role, &r.XPPoints, &r.Badges, &r.LastActive, &r.StoredStreak); err != nil {
			return nil, fmt.Errorf("topUsers scan: %w", err)
		}
		r.CurrentStreak = liveStreak(r.LastActive, r.StoredStreak, today)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("topUsers rows err: %w", err)
	}
	return result, nil
}

// liveStreak は最終活動日が今日か昨日なら保存済みの連続日数を、それ以外は 0 を返します。
func liveStreak(last sql.NullTime, streak sql.NullInt64, today time.Time) int {
	if !last.Valid || !streak.Valid {
		return 0
	}
	d := timeutil.CalendarDate(last.Time, time.UTC)
	if d.Equal(today) || d.Equal(timeutil.PreviousDay(today)) {
		return int(streak.Int64)
	}
	return 0
}

func splitRoles(raw string) []string {
	var roles []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
