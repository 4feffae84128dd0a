// Package appstate holds the navigation and game day mode of one app session
// in memory. It satisfies the executor's Navigator and AppState interfaces
// and is the field source for snapshots.
package appstate

import (
	"sync"

	"gameday-assistant/internal/snapshot"
)

const (
	routeMain     = "Main"
	tabHome       = "Home"
	screenDefault = "Dashboard"
	defaultFilter = "All"
	defaultPhase  = "journey"
)

// View is the serializable app state.
type View struct {
	Ready        bool           `json:"ready"`
	Route        string         `json:"route"`
	Params       map[string]any `json:"params,omitempty"`
	RouteName    string         `json:"routeName"`
	IsGameDay    bool           `json:"isGameDay"`
	Phase        string         `json:"gameDayPhase,omitempty"`
	Intent       string         `json:"gameDayIntent,omitempty"`
	NewsFilter   string         `json:"newsFilter"`
	ShopCategory string         `json:"shopCategory"`
}

type Store struct {
	mu           sync.RWMutex
	ready        bool
	route        string
	params       map[string]any
	isGameDay    bool
	phase        string
	intent       string
	newsFilter   string
	shopCategory string
	currentGame  *snapshot.Game
	nextGame     *snapshot.Game
	user         *snapshot.User
	listeners    []func()
}

// New returns a ready store on the home dashboard.
func New() *Store {
	return &Store{
		ready:        true,
		route:        routeMain,
		params:       map[string]any{"screen": tabHome, "params": map[string]any{"screen": screenDefault}},
		newsFilter:   defaultFilter,
		shopCategory: defaultFilter,
	}
}

// OnChange registers fn to run after the route, game day flag or phase
// changes. Listeners run outside the store lock.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.RLock()
	ls := append([]func(){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range ls {
		fn()
	}
}

func (s *Store) SetReady(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = v
}

func (s *Store) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Store) Navigate(route string, params map[string]any) {
	s.mu.Lock()
	s.route = route
	s.params = cloneParams(params)
	s.mu.Unlock()
	s.notify()
}

func (s *Store) EnterGameDay(intent string) {
	if intent == "" {
		intent = defaultPhase
	}
	s.mu.Lock()
	s.isGameDay = true
	s.intent = intent
	s.phase = intent
	s.mu.Unlock()
	s.notify()
}

func (s *Store) ExitGameDay() {
	s.mu.Lock()
	s.isGameDay = false
	s.intent = ""
	s.phase = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Store) GoToPhase(phase string) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetNewsFilter(filter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newsFilter = filter
}

func (s *Store) SetShopCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shopCategory = category
}

// SetGames replaces the fixtures shown to the assistant.
func (s *Store) SetGames(current, next *snapshot.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentGame = current
	s.nextGame = next
}

func (s *Store) SetUser(u *snapshot.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// Fields returns the snapshot inputs for the current state.
func (s *Store) Fields() snapshot.Fields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot.Fields{
		RouteName:    LeafRoute(s.route, s.params),
		IsGameDay:    s.isGameDay,
		GameDayPhase: s.phase,
		CurrentGame:  s.currentGame,
		NextGame:     s.nextGame,
		User:         s.user,
	}
}

func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		Ready:        s.ready,
		Route:        s.route,
		Params:       cloneParams(s.params),
		RouteName:    LeafRoute(s.route, s.params),
		IsGameDay:    s.isGameDay,
		Phase:        s.phase,
		Intent:       s.intent,
		NewsFilter:   s.newsFilter,
		ShopCategory: s.shopCategory,
	}
}

// LeafRoute resolves the screen actually shown for a navigation. The main tab
// navigator reports its tab, and the home tab reports its nested screen.
func LeafRoute(route string, params map[string]any) string {
	if route != routeMain {
		return route
	}
	tab, _ := params["screen"].(string)
	if tab == "" {
		tab = tabHome
	}
	if tab != tabHome {
		return tab
	}
	if nested, ok := params["params"].(map[string]any); ok {
		if screen, ok := nested["screen"].(string); ok && screen != "" {
			return screen
		}
	}
	return screenDefault
}

func cloneParams(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		if nested, ok := v.(map[string]any); ok {
			v = cloneParams(nested)
		}
		out[k] = v
	}
	return out
}
