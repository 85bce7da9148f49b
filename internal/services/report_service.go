package services

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/letsgoal/goal-tracker-api/internal/apperrors"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"github.com/letsgoal/goal-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// ReportService produces dashboard statistics, the achievement history report
// and the daily progress snapshots used for trend charts.
type ReportService struct {
	db    *gorm.DB
	guard PermissionGuard
}

// NewReportService creates a new ReportService
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// DashboardStats summarizes a user's goals per lifecycle stage
type DashboardStats struct {
	TotalGoals      int64   `json:"total_goals"`
	CreatedGoals    int64   `json:"created_goals"`
	ActiveGoals     int64   `json:"active_goals"`
	CompletedGoals  int64   `json:"completed_goals"`
	ArchivedGoals   int64   `json:"archived_goals"`
	AchievementRate float64 `json:"achievement_rate"`
}

// TimingEntry compares a goal's target date against its achieved date
type TimingEntry struct {
	GoalID         uint64 `json:"goal_id"`
	Title          string `json:"title"`
	TargetDate     string `json:"target_date"`
	AchievedDate   string `json:"achieved_date"`
	DaysDifference int    `json:"days_difference"`
	Timing         string `json:"timing"`
}

// HistoryReport is the achievement history for a user
type HistoryReport struct {
	AchievedGoals     []models.Goal  `json:"achieved_goals"`
	TimingAnalysis    []TimingEntry  `json:"timing_analysis"`
	MonthlyTrends     map[string]int `json:"monthly_trends"`
	TotalAchievements int            `json:"total_achievements"`
}

// GetDashboardStats returns per-status counts for the user's own goals.
func (s *ReportService) GetDashboardStats(userID uint64) (*DashboardStats, error) {
	counts, err := repository.NewGoalRepository(s.db).CountByOwnerAndStatus(userID)
	if err != nil {
		return nil, apperrors.Internal("failed to count goals", err)
	}

	stats := &DashboardStats{
		CreatedGoals:   counts[models.GoalStatusCreated],
		ActiveGoals:    counts[models.GoalStatusStarted] + counts[models.GoalStatusWorking],
		CompletedGoals: counts[models.GoalStatusCompleted],
		ArchivedGoals:  counts[models.GoalStatusArchived],
	}
	for _, count := range counts {
		stats.TotalGoals += count
	}
	if stats.TotalGoals > 0 {
		achieved := stats.CompletedGoals + stats.ArchivedGoals
		stats.AchievementRate = math.Round(float64(achieved)/float64(stats.TotalGoals)*1000) / 10
	}
	return stats, nil
}

// GetHistoryReport returns achieved goals (completed or archived) with
// target-vs-achieved timing analysis and monthly achievement trends.
func (s *ReportService) GetHistoryReport(userID uint64) (*HistoryReport, error) {
	goals := repository.NewGoalRepository(s.db)

	completed, err := goals.ListByOwnerAndStatus(userID, models.GoalStatusCompleted)
	if err != nil {
		return nil, apperrors.Internal("failed to list completed goals", err)
	}
	archived, err := goals.ListByOwnerAndStatus(userID, models.GoalStatusArchived)
	if err != nil {
		return nil, apperrors.Internal("failed to list archived goals", err)
	}

	achieved := append(completed, archived...)
	sort.SliceStable(achieved, func(i, j int) bool {
		a, b := achieved[i].AchievedDate, achieved[j].AchievedDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})

	report := &HistoryReport{
		AchievedGoals:     achieved,
		TimingAnalysis:    []TimingEntry{},
		MonthlyTrends:     map[string]int{},
		TotalAchievements: len(achieved),
	}

	for _, goal := range achieved {
		if goal.AchievedDate == nil {
			continue
		}
		report.MonthlyTrends[goal.AchievedDate.Format("2006-01")]++

		if goal.TargetDate == nil {
			continue
		}
		days := int(dateOnly(*goal.AchievedDate).Sub(dateOnly(*goal.TargetDate)).Hours() / 24)
		timing := "on_time"
		if days < 0 {
			timing = "early"
		} else if days > 0 {
			timing = "late"
		}
		report.TimingAnalysis = append(report.TimingAnalysis, TimingEntry{
			GoalID:         goal.ID,
			Title:          goal.Title,
			TargetDate:     goal.TargetDate.Format("2006-01-02"),
			AchievedDate:   goal.AchievedDate.Format("2006-01-02"),
			DaysDifference: days,
			Timing:         timing,
		})
	}

	return report, nil
}

// AddProgressEntry snapshots a goal's current progress with an optional note.
// A later entry on the same day supersedes the earlier one; rows are never
// overwritten.
func (s *ReportService) AddProgressEntry(goalID, actorID uint64, notes string) (*models.ProgressEntry, error) {
	var entry *models.ProgressEntry

	err := s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := repository.NewGoalRepository(tx).FindByIDForUpdate(goalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("goal not found")
			}
			return apperrors.Internal("failed to load goal", err)
		}

		shares, err := repository.NewShareRepository(tx).ListByGoal(goalID)
		if err != nil {
			return apperrors.Internal("failed to load shares", err)
		}
		if !s.guard.CanEdit(goal, shares, actorID) {
			return apperrors.Permission("you do not have permission to modify this goal")
		}

		entry = &models.ProgressEntry{
			GoalID:             goalID,
			EntryDate:          dateOnly(time.Now()),
			ProgressPercentage: goal.Progress,
			Notes:              notes,
		}
		if err := repository.NewProgressEntryRepository(tx).Create(entry); err != nil {
			return apperrors.Internal("failed to create progress entry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListProgressEntries returns a goal's snapshots, newest first.
func (s *ReportService) ListProgressEntries(goalID, userID uint64) ([]models.ProgressEntry, error) {
	goal, err := repository.NewGoalRepository(s.db).FindByID(goalID, "Shares")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("goal not found")
		}
		return nil, apperrors.Internal("failed to load goal", err)
	}
	if !s.guard.CanAccess(goal, goal.Shares, userID) {
		return nil, apperrors.Permission("you do not have access to this goal")
	}

	entries, err := repository.NewProgressEntryRepository(s.db).ListByGoal(goalID)
	if err != nil {
		return nil, apperrors.Internal("failed to list progress entries", err)
	}
	return entries, nil
}

// CaptureDailySnapshots writes today's progress entry for every non-archived
// goal. The scheduler calls this once a day; reruns insert superseding rows.
func (s *ReportService) CaptureDailySnapshots(now time.Time) (int, error) {
	var captured int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		goals, err := repository.NewGoalRepository(tx).ListActive()
		if err != nil {
			return apperrors.Internal("failed to list goals", err)
		}

		entries := repository.NewProgressEntryRepository(tx)
		for _, goal := range goals {
			entry := &models.ProgressEntry{
				GoalID:             goal.ID,
				EntryDate:          dateOnly(now),
				ProgressPercentage: goal.Progress,
			}
			if err := entries.Create(entry); err != nil {
				return apperrors.Internal("failed to create progress entry", err)
			}
			captured++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return captured, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
