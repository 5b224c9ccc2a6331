package models

import "time"

// SessionTypeRace is the only session type the collector fetches; qualifying
// and practice data carry no win label.
const SessionTypeRace = "race"

// Session is one collected race session: merged lap telemetry plus the
// final classification it was labeled from.
type Session struct {
	Season      int       `json:"season"`
	Event       string    `json:"event"`
	Type        string    `json:"type"`
	Laps        []Lap     `json:"laps"`
	Results     []Result  `json:"results"`
	CollectedAt time.Time `json:"collected_at"`
}

// Lap is one lap observation merged with the driver's final result. Pointer
// fields are absent readings; they become Missing cells in a Record.
type Lap struct {
	ID             int64    `json:"id,omitempty"`
	Season         int      `json:"season"`
	Event          string   `json:"event"`
	Time           *float64 `json:"time,omitempty"`
	Driver         string   `json:"driver"`
	DriverNumber   string   `json:"driver_number"`
	Team           string   `json:"team"`
	LapNumber      int      `json:"lap_number"`
	LapTime        *float64 `json:"lap_time,omitempty"`
	Sector1Time    *float64 `json:"sector1_time,omitempty"`
	Sector2Time    *float64 `json:"sector2_time,omitempty"`
	Sector3Time    *float64 `json:"sector3_time,omitempty"`
	Compound       *string  `json:"compound,omitempty"`
	IsPersonalBest *bool    `json:"is_personal_best,omitempty"`
	Position       int      `json:"position"`
	Points         float64  `json:"points"`
	Win            int      `json:"win"`
}

// Result is one row of the final classification sheet.
type Result struct {
	DriverNumber string  `json:"driver_number"`
	Driver       string  `json:"driver"`
	Position     int     `json:"position"`
	Points       float64 `json:"points"`
}

// lapColumns is the canonical header order for raw lap CSV files.
var lapColumns = []string{
	"Time", "Driver", "DriverNumber", "Team", "LapNumber", "LapTime",
	"Sector1Time", "Sector2Time", "Sector3Time", "Compound",
	"IsPersonalBest", "Position", "Points", "Win",
}

// LapColumns returns the canonical raw CSV column order.
func LapColumns() []string {
	return append([]string(nil), lapColumns...)
}

// Record converts the lap to a raw tabular record. Season and event are
// carried by the file or table holding the batch, not by the row.
func (l Lap) Record() Record {
	r := Record{
		"Time":   numberOrMissing(l.Time),
		"Driver": NewString(l.Driver),
		// DriverNumber goes through ParseCell so the in-memory path yields
		// the same cell a CSV round-trip would: digits become numbers the
		// transformer can pass through.
		"DriverNumber":   ParseCell(l.DriverNumber),
		"Team":           NewString(l.Team),
		"LapNumber":      NewNumber(float64(l.LapNumber)),
		"LapTime":        numberOrMissing(l.LapTime),
		"Sector1Time":    numberOrMissing(l.Sector1Time),
		"Sector2Time":    numberOrMissing(l.Sector2Time),
		"Sector3Time":    numberOrMissing(l.Sector3Time),
		"Position":       NewNumber(float64(l.Position)),
		"Points":         NewNumber(l.Points),
		"Win":            NewNumber(float64(l.Win)),
	}
	if l.Compound != nil {
		r["Compound"] = NewString(*l.Compound)
	} else {
		r["Compound"] = Missing()
	}
	if l.IsPersonalBest != nil {
		r["IsPersonalBest"] = NewBool(*l.IsPersonalBest)
	} else {
		r["IsPersonalBest"] = Missing()
	}
	return r
}

func numberOrMissing(v *float64) Value {
	if v == nil {
		return Missing()
	}
	return NewNumber(*v)
}

// RecordBatch converts a lap slice to transformer input, preserving order.
func RecordBatch(laps []Lap) []Record {
	out := make([]Record, len(laps))
	for i, l := range laps {
		out[i] = l.Record()
	}
	return out
}
