package navigation

import (
	"testing"

	"github.com/berfenger/solardash/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaults(t *testing.T) {

	assert := assert.New(t)

	tree, err := Build(config.NavigationConfig{})
	require.NoError(t, err)

	assert.Equal("#186cbf", tree.HeaderColor)
	require.Len(t, tree.Tabs, 3)
	assert.Equal("Dashboard", tree.Tabs[0].Title)
	assert.Equal([]string{ACTION_MENU, ACTION_REFRESH}, tree.Tabs[0].Actions)
	assert.Equal([]string{ACTION_MENU}, tree.Tabs[1].Actions)
	assert.Equal("trending-up", tree.Tabs[1].Icon)

	require.Len(t, tree.Drawer, 11)
	assert.Equal(Screen{Name: TABS_SCREEN_NAME, Title: "Dashboard", Icon: "home"}, tree.Drawer[0])
	assert.Equal("Help & Support", tree.Drawer[3].Title)
	assert.Equal("logout", tree.Drawer[10].Icon)
}

func TestBuildCustom(t *testing.T) {

	assert := assert.New(t)

	tree, err := Build(config.NavigationConfig{
		HeaderColor: "#000000",
		Tabs:        []config.ScreenConfig{{Name: "Trends"}},
		Drawer:      []config.ScreenConfig{},
	})
	require.NoError(t, err)
	assert.Equal("Trends", tree.Tabs[0].Title)
	assert.Equal(DEFAULT_DRAWER_ICON, tree.Tabs[0].Icon)
	assert.Len(tree.Drawer, 1)
}

func TestBuildValidation(t *testing.T) {

	assert := assert.New(t)

	_, err := Build(config.NavigationConfig{HeaderColor: "blue"})
	assert.ErrorIs(err, ErrInvalidHeaderHex)

	_, err = Build(config.NavigationConfig{Tabs: []config.ScreenConfig{{Name: ""}}})
	assert.ErrorIs(err, ErrEmptyScreenName)

	_, err = Build(config.NavigationConfig{
		Tabs:   []config.ScreenConfig{{Name: "Dashboard"}},
		Drawer: []config.ScreenConfig{{Name: "Dashboard"}},
	})
	assert.ErrorIs(err, ErrDuplicateScreen)

	_, err = Build(config.NavigationConfig{Tabs: []config.ScreenConfig{{Name: TABS_SCREEN_NAME}}})
	assert.ErrorIs(err, ErrDuplicateScreen)
}
