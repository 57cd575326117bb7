package planner

import "time"

// RoomRecord is a persisted room row as handed over by the catalog store.
// Numeric fields left unset default to zero, type defaults to mixed.
type RoomRecord struct {
	Name               string
	Type               string
	Capacity           int
	Computers          int
	Sinks              int
	FumeHoods          int
	OpticalBenches     int
	Oscilloscopes      int
	ElectricBurners    int
	FiltrationSupports int
	Printers           int
	ExamCapable        bool
}

// Room is the engine-side view of a physical room. Never mutated during a
// run.
type Room struct {
	Name     string
	Type     Subject
	Capacity int
	Gear     Equipment
}

// AdaptRooms converts catalog records into engine Rooms, default-filling
// missing fields.
func AdaptRooms(records []RoomRecord) []Room {
	rooms := make([]Room, 0, len(records))
	for _, rec := range records {
		gear := Equipment{
			Computers:          rec.Computers,
			Sinks:              rec.Sinks,
			FumeHoods:          rec.FumeHoods,
			OpticalBenches:     rec.OpticalBenches,
			Oscilloscopes:      rec.Oscilloscopes,
			ElectricBurners:    rec.ElectricBurners,
			FiltrationSupports: rec.FiltrationSupports,
			Printers:           rec.Printers,
		}
		if rec.ExamCapable {
			gear.ExamDesks = 1
		}
		rooms = append(rooms, Room{
			Name:     rec.Name,
			Type:     NormalizeSubject(rec.Type),
			Capacity: rec.Capacity,
			Gear:     gear,
		})
	}
	return rooms
}

// Window is a recurring weekly range during which the special room may be
// used at all.
type Window struct {
	Weekday time.Weekday
	Start   int
	End     int
}

// specialRoomOpen reports whether the course interval lies entirely inside
// some window for its weekday. With no windows configured the behaviour is
// explicit configuration, not an implicit default: OpenWhenUnconfigured
// decides.
func (p *Planner) specialRoomOpen(day time.Weekday, iv Interval, windows []Window) bool {
	if len(windows) == 0 {
		return p.cfg.OpenWhenUnconfigured
	}
	for _, w := range windows {
		if w.Weekday != day {
			continue
		}
		if w.Start <= iv.Start && iv.End <= w.End {
			return true
		}
	}
	return false
}
