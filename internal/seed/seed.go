package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"gorm.io/gorm"
)

const seededDays = 40

// Run seeds the database with sample daily summaries and hourly
// heart-rate buckets. Safe to call multiple times.
func Run(db *gorm.DB, loc *time.Location) error {
	if err := db.AutoMigrate(
		&domain.MetricsCache{},
		&domain.HeartRateHourly{},
		&domain.DailyHealthSummary{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	today := domain.DateOf(time.Now(), loc)

	for i := 1; i <= seededDays; i++ {
		day := today.AddDate(0, 0, -i)
		row := sampleSummary(day, rng)
		if err := db.Where("day = ?", day).FirstOrCreate(row).Error; err != nil {
			return fmt.Errorf("failed to seed summary for %s: %w", day.Format("2006-01-02"), err)
		}
	}

	// Hourly buckets for yesterday and a partial run for today, so the
	// context endpoint has something to show out of the box.
	if err := seedHourly(db, today.AddDate(0, 0, -1), 24, rng); err != nil {
		return err
	}
	if err := seedHourly(db, today, 14, rng); err != nil {
		return err
	}

	log.Println("Seed completed")
	return nil
}

func sampleSummary(day time.Time, rng *rand.Rand) *domain.DailyHealthSummary {
	sleepMin := 360 + rng.Intn(150)
	sleepEff := 82.0 + rng.Float64()*14
	sleepScore := 60 + rng.Intn(35)
	restingHR := 48 + rng.Intn(8)
	hrMean := 58.0 + rng.Float64()*12
	hrMin := 44 + rng.Intn(6)
	hrMax := 110 + rng.Intn(60)
	steps := 4000 + rng.Intn(9000)

	row := &domain.DailyHealthSummary{
		Day:             day,
		SleepMinutes:    &sleepMin,
		SleepEfficiency: &sleepEff,
		SleepScore:      &sleepScore,
		RestingHR:       &restingHR,
		HRMean:          &hrMean,
		HRMin:           &hrMin,
		HRMax:           &hrMax,
		Steps:           &steps,
	}

	// Roughly every third day was a training day.
	if rng.Intn(3) == 0 {
		tss := 30.0 + rng.Float64()*70
		row.TSS = &tss
	}
	return row
}

func seedHourly(db *gorm.DB, day time.Time, hours int, rng *rand.Rand) error {
	for h := 0; h < hours; h++ {
		mean := 52.0 + rng.Float64()*20
		if h >= 17 && h <= 19 {
			// Evening workout window
			mean += 40 + rng.Float64()*20
		}
		row := &domain.HeartRateHourly{
			Day:     day,
			Hour:    h,
			HRMean:  mean,
			HRMin:   int(mean) - 4 - rng.Intn(6),
			HRMax:   int(mean) + 10 + rng.Intn(30),
			Samples: 300 + rng.Intn(100),
		}
		if err := db.Where("day = ? AND hour = ?", day, h).FirstOrCreate(row).Error; err != nil {
			return fmt.Errorf("failed to seed hourly bucket %s/%d: %w", day.Format("2006-01-02"), h, err)
		}
	}
	return nil
}
