package simulator

// rosterEntry is one car on the grid. pace is the driver's deficit in
// seconds per lap relative to their teammate baseline.
type rosterEntry struct {
	number string
	code   string
	team   string
	pace   float64
}

var roster = []rosterEntry{
	{"1", "VER", "Red Bull Racing", 0.00},
	{"11", "PER", "Red Bull Racing", 0.35},
	{"16", "LEC", "Ferrari", 0.05},
	{"55", "SAI", "Ferrari", 0.15},
	{"44", "HAM", "Mercedes", 0.05},
	{"63", "RUS", "Mercedes", 0.15},
	{"4", "NOR", "McLaren", 0.05},
	{"81", "PIA", "McLaren", 0.25},
	{"14", "ALO", "Aston Martin", 0.00},
	{"18", "STR", "Aston Martin", 0.45},
	{"10", "GAS", "Alpine", 0.15},
	{"31", "OCO", "Alpine", 0.20},
	{"23", "ALB", "Williams", 0.10},
	{"2", "SAR", "Williams", 0.55},
	{"22", "TSU", "AlphaTauri", 0.20},
	{"3", "RIC", "AlphaTauri", 0.25},
	{"77", "BOT", "Alfa Romeo", 0.20},
	{"24", "ZHO", "Alfa Romeo", 0.35},
	{"20", "MAG", "Haas F1 Team", 0.25},
	{"27", "HUL", "Haas F1 Team", 0.20},
}

// teamPace is each team's deficit in seconds per lap to the front of the grid.
var teamPace = map[string]float64{
	"Red Bull Racing": 0.00,
	"Ferrari":         0.25,
	"Mercedes":        0.30,
	"McLaren":         0.45,
	"Aston Martin":    0.60,
	"Alpine":          0.80,
	"Williams":        1.00,
	"AlphaTauri":      1.10,
	"Alfa Romeo":      1.20,
	"Haas F1 Team":    1.30,
}

// racePoints pays the top ten classified finishers.
var racePoints = []float64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

func compoundOffset(compound string) float64 {
	switch compound {
	case "SOFT":
		return -0.45
	case "HARD":
		return 0.40
	default:
		return 0
	}
}
