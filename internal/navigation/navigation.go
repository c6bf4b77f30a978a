package navigation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/berfenger/solardash/internal/config"
)

const (
	DEFAULT_HEADER_COLOR = "#186cbf"
	DEFAULT_DRAWER_ICON  = "circle"
	TABS_SCREEN_NAME     = "Tabs"
	ACTION_REFRESH       = "refresh"
	ACTION_MENU          = "menu"
)

var (
	ErrEmptyScreenName  = errors.New("screen name cannot be empty")
	ErrDuplicateScreen  = errors.New("duplicate screen name")
	ErrInvalidHeaderHex = errors.New("header color must be #rrggbb")
)

var headerColorRegexp = regexp.MustCompile("^#[0-9a-fA-F]{6}$")

type Screen struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Icon    string   `json:"icon"`
	Actions []string `json:"actions,omitempty"`
}

// Tree is the app shell: a drawer whose first entry hosts the bottom tabs.
type Tree struct {
	HeaderColor string   `json:"header_color"`
	Tabs        []Screen `json:"tabs"`
	Drawer      []Screen `json:"drawer"`
}

func Defaults() config.NavigationConfig {
	return config.NavigationConfig{
		HeaderColor: DEFAULT_HEADER_COLOR,
		Tabs: []config.ScreenConfig{
			{Name: "Dashboard", Icon: "home"},
			{Name: "Trends", Icon: "trending-up"},
			{Name: "System", Icon: "information-outline"},
		},
		Drawer: []config.ScreenConfig{
			{Name: "ManageDevices", Title: "Manage Devices", Icon: "devices"},
			{Name: "Setting", Title: "Settings", Icon: "cogs"},
			{Name: "Help&Support", Title: "Help & Support", Icon: "face-agent"},
			{Name: "Feedbacks", Title: "Feedbacks", Icon: "comment-quote-outline"},
			{Name: "Invitation", Title: "Invitations", Icon: "page-previous-outline"},
			{Name: "Wificonnect", Title: "Wifi Connect", Icon: "wifi"},
			{Name: "Notifications", Title: "Notifications", Icon: "bell"},
			{Name: "ContactUs", Title: "Contact Us", Icon: "phone-plus"},
			{Name: "Diagnostics", Title: "Diagnostics", Icon: "clipboard-plus"},
			{Name: "Logouts", Title: "Logouts", Icon: "logout"},
		},
	}
}

// Build assembles the navigation tree. Missing sections fall back to Defaults.
func Build(cfg config.NavigationConfig) (Tree, error) {
	defaults := Defaults()
	if cfg.HeaderColor == "" {
		cfg.HeaderColor = defaults.HeaderColor
	}
	if len(cfg.Tabs) == 0 {
		cfg.Tabs = defaults.Tabs
	}
	if cfg.Drawer == nil {
		cfg.Drawer = defaults.Drawer
	}

	if !headerColorRegexp.MatchString(cfg.HeaderColor) {
		return Tree{}, fmt.Errorf("%w: %q", ErrInvalidHeaderHex, cfg.HeaderColor)
	}

	seen := map[string]bool{TABS_SCREEN_NAME: true}
	tree := Tree{HeaderColor: cfg.HeaderColor}

	for i, sc := range cfg.Tabs {
		screen, err := toScreen(sc, seen)
		if err != nil {
			return Tree{}, err
		}
		screen.Actions = []string{ACTION_MENU}
		// the first tab is the landing screen and can be refreshed
		if i == 0 {
			screen.Actions = append(screen.Actions, ACTION_REFRESH)
		}
		tree.Tabs = append(tree.Tabs, screen)
	}
	tree.Drawer = append(tree.Drawer, Screen{
		Name:  TABS_SCREEN_NAME,
		Title: tree.Tabs[0].Title,
		Icon:  tree.Tabs[0].Icon,
	})
	for _, sc := range cfg.Drawer {
		screen, err := toScreen(sc, seen)
		if err != nil {
			return Tree{}, err
		}
		tree.Drawer = append(tree.Drawer, screen)
	}
	return tree, nil
}

func toScreen(sc config.ScreenConfig, seen map[string]bool) (Screen, error) {
	if sc.Name == "" {
		return Screen{}, ErrEmptyScreenName
	}
	if seen[sc.Name] {
		return Screen{}, fmt.Errorf("%w: %s", ErrDuplicateScreen, sc.Name)
	}
	seen[sc.Name] = true

	screen := Screen{Name: sc.Name, Title: sc.Title, Icon: sc.Icon}
	if screen.Title == "" {
		screen.Title = sc.Name
	}
	if screen.Icon == "" {
		screen.Icon = DEFAULT_DRAWER_ICON
	}
	return screen, nil
}
