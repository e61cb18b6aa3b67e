package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/apexfit/booking-api/config"
)

type seedLocation struct {
	Name          string
	Address       string
	SaunaCapacity int
}

type seedClass struct {
	Name        string
	Description string
	Instructor  string
	Location    string // seedLocation.Name
	Capacity    int
	Duration    time.Duration
	DayOfWeek   time.Weekday
	StartHour   int
	StartMinute int
}

var locations = []seedLocation{
	{Name: "Sukhumvit Studio", Address: "123 Sukhumvit Rd, Khlong Toei, Bangkok 10110", SaunaCapacity: 4},
	{Name: "Silom Studio", Address: "456 Silom Rd, Bang Rak, Bangkok 10500", SaunaCapacity: 6},
	{Name: "Thonglor Studio", Address: "789 Sukhumvit 55, Watthana, Bangkok 10110", SaunaCapacity: 4},
}

var classes = []seedClass{
	{Name: "Yoga Morning Flow", Description: "Start the day with gentle movement and deep breathing. All levels welcome.", Instructor: "Natcha", Location: "Sukhumvit Studio", Capacity: 20, Duration: 60 * time.Minute, DayOfWeek: time.Monday, StartHour: 7},
	{Name: "HIIT Cardio Blast", Description: "High-intensity training that burns serious calories in a short session.", Instructor: "Thanapol", Location: "Sukhumvit Studio", Capacity: 15, Duration: 45 * time.Minute, DayOfWeek: time.Monday, StartHour: 18, StartMinute: 30},
	{Name: "Pilates Core Strength", Description: "Core-focused training for balance, posture and flexibility.", Instructor: "Paranee", Location: "Silom Studio", Capacity: 18, Duration: 60 * time.Minute, DayOfWeek: time.Tuesday, StartHour: 12},
	{Name: "Zumba Dance Fitness", Description: "Dance your way through a calorie burn. No experience needed.", Instructor: "Ploy", Location: "Silom Studio", Capacity: 25, Duration: 60 * time.Minute, DayOfWeek: time.Wednesday, StartHour: 19},
	{Name: "Strength Training", Description: "Free weights and machines to build muscle and raw strength.", Instructor: "Anucha", Location: "Thonglor Studio", Capacity: 12, Duration: 75 * time.Minute, DayOfWeek: time.Thursday, StartHour: 6},
	{Name: "Spin Cycle", Description: "Indoor cycling with music and lights for those who like a challenge.", Instructor: "Wit", Location: "Thonglor Studio", Capacity: 20, Duration: 45 * time.Minute, DayOfWeek: time.Friday, StartHour: 17, StartMinute: 30},
	{Name: "Stretch & Recovery", Description: "Restore your body with stretching and relaxation techniques.", Instructor: "Supaporn", Location: "Sukhumvit Studio", Capacity: 15, Duration: 60 * time.Minute, DayOfWeek: time.Saturday, StartHour: 10},
	{Name: "Boxing Bootcamp", Description: "Boxing-style conditioning mixing strength and cardio.", Instructor: "Thanawut", Location: "Silom Studio", Capacity: 16, Duration: 60 * time.Minute, DayOfWeek: time.Saturday, StartHour: 16},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	locationIDs := map[string]string{}
	for _, l := range locations {
		var id string
		err := db.QueryRow(`
			INSERT INTO locations (name, address, sauna_capacity)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET address = EXCLUDED.address, sauna_capacity = EXCLUDED.sauna_capacity
			RETURNING id
		`, l.Name, l.Address, l.SaunaCapacity).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed location %s: %v", l.Name, err)
		}
		locationIDs[l.Name] = id
		fmt.Printf("seeded location: %s (%s)\n", l.Name, id)
	}

	// Four weeks of each weekly class, skipping occurrences already present.
	seeded := 0
	for _, c := range classes {
		first := nextOccurrence(time.Now(), c.DayOfWeek, c.StartHour, c.StartMinute)
		for week := 0; week < 4; week++ {
			start := first.AddDate(0, 0, week*7)
			end := start.Add(c.Duration)
			res, err := db.Exec(`
				INSERT INTO classes (name, description, instructor, location_id, start_time, end_time, capacity, booked_count)
				VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
				ON CONFLICT (name, start_time) DO NOTHING
			`, c.Name, c.Description, c.Instructor, locationIDs[c.Location], start, end, c.Capacity)
			if err != nil {
				log.Fatalf("failed to seed class %s: %v", c.Name, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				seeded++
			}
		}
		fmt.Printf("seeded 4 weeks of: %s\n", c.Name)
	}
	fmt.Printf("done: %d locations, %d new class occurrences\n", len(locations), seeded)
}

// nextOccurrence returns the next future time the weekly slot occurs.
func nextOccurrence(now time.Time, day time.Weekday, hour, minute int) time.Time {
	daysUntil := int(day-now.Weekday()+7) % 7
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()).AddDate(0, 0, daysUntil)
	if !t.After(now) {
		t = t.AddDate(0, 0, 7)
	}
	return t
}
