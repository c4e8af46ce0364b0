package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/schema"
)

// WindowDays is the number of local calendar days before today covered by the by-day view
const WindowDays = 7

var (
	ErrInvalidTimezone = errors.New("invalid timezone")
	ErrUserNotFound    = errors.New("user not found")
	ErrMalformedLog    = errors.New("malformed log")
)

var byDayTimer = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:      "by_day_duration_ms",
	Help:      "A histogram for the logs by day computation time (ms)",
	Buckets:   prometheus.LinearBuckets(20, 20, 300),
	Subsystem: "shapelogs",
	Namespace: "dblp",
})

// DayGrouper groups the recent logs of a user by local calendar day
type DayGrouper struct {
	logger     *log.Logger
	repository LogRepository
	clock      clockwork.Clock
}

func NewDayGrouper(logger *log.Logger, repository LogRepository, clock clockwork.Clock) *DayGrouper {
	return &DayGrouper{
		logger:     logger,
		repository: repository,
		clock:      clock,
	}
}

// ComputeWindowStart returns the local midnight WindowDays calendar days before the local date of now.
// The result is the inclusive lower bound of the fetched logs.
func ComputeWindowStart(timezone string, now time.Time) (time.Time, error) {
	loc, err := loadTimezone(timezone)
	if err != nil {
		return time.Time{}, err
	}
	return windowStart(loc, now), nil
}

func loadTimezone(timezone string) (*time.Location, error) {
	loc, err := schema.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimezone, timezone, err)
	}
	return loc, nil
}

func windowStart(loc *time.Location, now time.Time) time.Time {
	return schema.LocalDaysBefore(now, loc, WindowDays)
}

// FetchWindow returns the identity of the user and its logs since windowStart.
// The five kinds are fetched concurrently, the first failure cancels the others.
func (d *DayGrouper) FetchWindow(ctx context.Context, userID string, windowStart time.Time) (*schema.Identity, *schema.UserLogs, error) {
	identity, err := d.repository.GetUserIdentity(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	logs, err := fetchUserLogs(ctx, d.repository, userID, windowStart)
	if err != nil {
		return nil, nil, err
	}
	return identity, logs, nil
}

func fetchUserLogs(ctx context.Context, repository LogRepository, userID string, since time.Time) (*schema.UserLogs, error) {
	logs := schema.UserLogs{}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		logs.FoodLogs, err = repository.FetchFoodLogs(gCtx, userID, since)
		return err
	})
	g.Go(func() (err error) {
		logs.WaterLogs, err = repository.FetchWaterLogs(gCtx, userID, since)
		return err
	})
	g.Go(func() (err error) {
		logs.WeightLogs, err = repository.FetchWeightLogs(gCtx, userID, since)
		return err
	})
	g.Go(func() (err error) {
		logs.ExerciseLogs, err = repository.FetchExerciseLogs(gCtx, userID, since)
		return err
	})
	g.Go(func() (err error) {
		logs.SleepLogs, err = repository.FetchSleepLogs(gCtx, userID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	empty := schema.NewUserLogs()
	if logs.FoodLogs == nil {
		logs.FoodLogs = empty.FoodLogs
	}
	if logs.WaterLogs == nil {
		logs.WaterLogs = empty.WaterLogs
	}
	if logs.WeightLogs == nil {
		logs.WeightLogs = empty.WeightLogs
	}
	if logs.ExerciseLogs == nil {
		logs.ExerciseLogs = empty.ExerciseLogs
	}
	if logs.SleepLogs == nil {
		logs.SleepLogs = empty.SleepLogs
	}
	return &logs, nil
}

// BucketByLocalDay dispatches every log into the local day of its loggedAt.
// Logs keep the order in which they are supplied.
func BucketByLocalDay(logs *schema.UserLogs, loc *time.Location) (schema.LogsByDay, error) {
	byDay := schema.LogsByDay{}
	if logs == nil {
		return byDay, nil
	}
	day := func(kind schema.LogKind, id int64, loggedAt time.Time) (*schema.DayLogs, error) {
		if loggedAt.IsZero() {
			return nil, fmt.Errorf("%w: %s log %d has no loggedAt", ErrMalformedLog, kind, id)
		}
		key := schema.LocalDateKey(loggedAt, loc)
		dayLogs, present := byDay[key]
		if !present {
			dayLogs = schema.NewDayLogs()
			byDay[key] = dayLogs
		}
		return dayLogs, nil
	}

	for _, l := range logs.FoodLogs {
		dayLogs, err := day(schema.FoodKind, l.ID, l.LoggedAt)
		if err != nil {
			return nil, err
		}
		dayLogs.FoodLogs = append(dayLogs.FoodLogs, l)
	}
	for _, l := range logs.WaterLogs {
		dayLogs, err := day(schema.WaterKind, l.ID, l.LoggedAt)
		if err != nil {
			return nil, err
		}
		dayLogs.WaterLogs = append(dayLogs.WaterLogs, l)
	}
	for _, l := range logs.WeightLogs {
		dayLogs, err := day(schema.WeightKind, l.ID, l.LoggedAt)
		if err != nil {
			return nil, err
		}
		dayLogs.WeightLogs = append(dayLogs.WeightLogs, l)
	}
	for _, l := range logs.ExerciseLogs {
		dayLogs, err := day(schema.ExerciseKind, l.ID, l.LoggedAt)
		if err != nil {
			return nil, err
		}
		dayLogs.ExerciseLogs = append(dayLogs.ExerciseLogs, l)
	}
	for _, l := range logs.SleepLogs {
		dayLogs, err := day(schema.SleepKind, l.ID, l.LoggedAt)
		if err != nil {
			return nil, err
		}
		dayLogs.SleepLogs = append(dayLogs.SleepLogs, l)
	}
	return byDay, nil
}

// Run returns the logs of the last WindowDays local days of the user, grouped by local day.
// ErrUserNotFound is returned when the user does not exist.
func (d *DayGrouper) Run(ctx context.Context, userID string, timezone string) (*schema.GroupedLogs, error) {
	start := time.Now()
	defer func() {
		byDayTimer.Observe(float64(time.Since(start).Milliseconds()))
	}()

	loc, err := loadTimezone(timezone)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	common.TimeIt(ctx, "fetchWindow")
	identity, logs, err := d.FetchWindow(ctx, userID, windowStart(loc, d.clock.Now()))
	common.TimeEnd(ctx, "fetchWindow")
	if err != nil {
		return nil, err
	}

	byDay, err := BucketByLocalDay(logs, loc)
	if err != nil {
		d.logger.Printf("logs of user %s cannot be grouped: %v", userID, err)
		return nil, err
	}
	return &schema.GroupedLogs{
		User:      *identity,
		LogsByDay: byDay,
	}, nil
}
