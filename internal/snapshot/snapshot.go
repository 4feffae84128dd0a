package snapshot

// User is the signed-in member as the assistant sees them.
type User struct {
	Name    string `json:"name"`
	Seat    string `json:"seat"`
	Parking string `json:"parking"`
}

// Game is a fixture on the schedule.
type Game struct {
	ID          string `json:"id"`
	Opponent    string `json:"opponent"`
	Date        string `json:"date"`
	IsHome      bool   `json:"isHome"`
	Venue       string `json:"venue,omitempty"`
	Competition string `json:"competition,omitempty"`
}

// Fields are the raw app state inputs a snapshot is derived from.
type Fields struct {
	RouteName    string
	IsGameDay    bool
	GameDayPhase string
	CurrentGame  *Game
	NextGame     *Game
	User         *User
}

// AppSnapshot is a serializable, side-effect-free view of app state sent to
// the responder.
type AppSnapshot struct {
	RouteName    string `json:"routeName"`
	IsGameDay    bool   `json:"isGameDay"`
	GameDayPhase string `json:"gameDayPhase"`
	CurrentGame  *Game  `json:"currentGame,omitempty"`
	NextGame     *Game  `json:"nextGame,omitempty"`
	User         User   `json:"user"`
	ScreenHint   string `json:"screenHint"`
}

// RedactedGame is the part of a game that may be logged.
type RedactedGame struct {
	Date     string `json:"date"`
	Opponent string `json:"opponent"`
	IsHome   bool   `json:"isHome"`
}

// RedactedSnapshot is the only snapshot form written to logs and telemetry.
type RedactedSnapshot struct {
	RouteName    string        `json:"routeName"`
	GameDayPhase string        `json:"gameDayPhase"`
	CurrentGame  *RedactedGame `json:"currentGame,omitempty"`
	NextGame     *RedactedGame `json:"nextGame,omitempty"`
	User         User          `json:"user"`
}

const defaultRoute = "Home"

var screenHints = map[string]string{
	"Home":           "Home dashboard with the next game countdown, quick links and latest headlines.",
	"Dashboard":      "Home dashboard with the next game countdown, quick links and latest headlines.",
	"Ticket":         "Digital season ticket; the pass flips to show the entry QR code.",
	"News":           "Club news feed filterable by All, Exclusive and Interviews.",
	"Shop":           "Club shop catalogue filterable by category.",
	"Stats":          "League table and player statistics.",
	"LiveOpsDetail":  "Live stadium operations detail (parking, gates, concessions).",
	"GameDayHome":    "Game day hub showing the current phase of the fan journey.",
	"GameDayJourney": "Game day journey planner: travel options and timings to the stadium.",
	"GameDayArrival": "Arrival phase: parking guidance and nearest gates.",
	"GameDayEntry":   "Entry phase: gate queues and ticket scanning.",
	"GameDayLive":    "Live match phase: score, events and in-seat ordering.",
	"GameDayPost":    "Post-match phase: highlights and exit routes.",
}

// ScreenHint returns the description of route, or the Home entry when the
// route is unknown.
func ScreenHint(route string) string {
	if h, ok := screenHints[route]; ok {
		return h
	}
	return screenHints[defaultRoute]
}

// Build derives a snapshot from f.
func Build(f Fields) AppSnapshot {
	user := User{Name: "Member"}
	if f.User != nil {
		user = *f.User
	}
	return AppSnapshot{
		RouteName:    f.RouteName,
		IsGameDay:    f.IsGameDay,
		GameDayPhase: f.GameDayPhase,
		CurrentGame:  copyGame(f.CurrentGame),
		NextGame:     copyGame(f.NextGame),
		User:         user,
		ScreenHint:   ScreenHint(f.RouteName),
	}
}

// RedactForLogs projects s onto the loggable subset. A nil snapshot yields nil.
func RedactForLogs(s *AppSnapshot) *RedactedSnapshot {
	if s == nil {
		return nil
	}
	return &RedactedSnapshot{
		RouteName:    s.RouteName,
		GameDayPhase: s.GameDayPhase,
		CurrentGame:  redactGame(s.CurrentGame),
		NextGame:     redactGame(s.NextGame),
		User: User{
			Name:    s.User.Name,
			Seat:    s.User.Seat,
			Parking: s.User.Parking,
		},
	}
}

func redactGame(g *Game) *RedactedGame {
	if g == nil {
		return nil
	}
	return &RedactedGame{Date: g.Date, Opponent: g.Opponent, IsHome: g.IsHome}
}

func copyGame(g *Game) *Game {
	if g == nil {
		return nil
	}
	c := *g
	return &c
}
