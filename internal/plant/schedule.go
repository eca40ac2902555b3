package plant

import "fmt"

// NextWaterDue returns the day the plant should next be watered.
func NextWaterDue(p *Plant) Date {
	return p.LastWatered.AddDays(p.WaterIntervalDays)
}

// NextFertilizeDue returns the day the plant should next be fertilized.
func NextFertilizeDue(p *Plant) Date {
	return p.LastFertilized.AddDays(p.FertilizeIntervalDays)
}

// DueCare reports which care actions are due on or before today.
func DueCare(p *Plant, today Date) (water, fertilize bool) {
	water = !NextWaterDue(p).After(today)
	fertilize = !NextFertilizeDue(p).After(today)
	return water, fertilize
}

// NeedsCareToday reports whether watering or fertilizing is due on or before today.
func NeedsCareToday(p *Plant, today Date) bool {
	water, fertilize := DueCare(p, today)
	return water || fertilize
}

// StatusText is the one-line summary shown in listings and reminders.
func StatusText(p *Plant) string {
	return fmt.Sprintf("%s: Water by %s, Fertilize by %s", p.Name, NextWaterDue(p), NextFertilizeDue(p))
}
