package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendee/vendee/internal/adapters/driving/tui/messages"
	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/services"
)

type mockSettingsService struct {
	settings domain.EngineSettings
	getErr   error
	setErr   error
	sets     map[string]string
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultEngineSettings(),
		sets:     make(map[string]string),
	}
}

func (m *mockSettingsService) Get() (*domain.EngineSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets[key] = value
	if key == services.KeyStorageDriver {
		m.settings.StorageDriver = domain.StorageDriver(value)
	}
	return nil
}

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) GetDefaults() domain.EngineSettings {
	return domain.DefaultEngineSettings()
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a view that has received its initial settings.
func loaded(t *testing.T, svc *mockSettingsService) *View {
	t.Helper()
	v := NewView(nil, svc)
	v.SetDimensions(100, 30)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	return v
}

func TestView_Init_LoadsSettings(t *testing.T) {
	v := loaded(t, newMockSettings())

	require.NotNil(t, v.Settings())
	assert.Equal(t, domain.StorageSQLite, v.Settings().StorageDriver)
	assert.NoError(t, v.Err())
}

func TestView_Init_NoService(t *testing.T) {
	v := NewView(nil, nil)

	msg := v.Init()()

	assert.Equal(t, messages.SettingsLoaded{Err: ErrNoSettingsService}, msg)
}

func TestView_LoadError(t *testing.T) {
	svc := newMockSettings()
	svc.getErr = errors.New("config unreadable")

	v := loaded(t, svc)

	assert.Nil(t, v.Settings())
	assert.Contains(t, v.View(), "config unreadable")
}

func TestView_View_Overview(t *testing.T) {
	v := loaded(t, newMockSettings())

	out := v.View()

	assert.Contains(t, out, "Settings")
	assert.Contains(t, out, "top 3, fixed cap 2, mobile cap 2/1")
	assert.Contains(t, out, "Events:     disabled")
	assert.Contains(t, out, "Storage driver: sqlite")
	assert.Contains(t, out, "Detection token: not set")
}

func TestView_View_NotReady(t *testing.T) {
	v := NewView(nil, newMockSettings())

	assert.Equal(t, "Initialising...", v.View())
}

func TestView_ChangeStorageDriver(t *testing.T) {
	svc := newMockSettings()
	v := loaded(t, svc)

	v.Update(keyMsg("enter"))
	require.Equal(t, SectionStorage, v.Section())

	v.Update(keyMsg("j"))
	_, cmd := v.Update(keyMsg("enter"))
	require.NotNil(t, cmd)

	saved := cmd()
	assert.Equal(t, messages.SettingsSaved{Key: services.KeyStorageDriver}, saved)
	assert.Equal(t, "postgres", svc.sets[services.KeyStorageDriver])

	_, reload := v.Update(saved)
	require.NotNil(t, reload)
	v.Update(reload())

	assert.Equal(t, SectionOverview, v.Section())
	assert.Equal(t, domain.StoragePostgres, v.Settings().StorageDriver)
	assert.Contains(t, v.View(), "Saved storage.driver")
}

func TestView_SetDetectionToken(t *testing.T) {
	svc := newMockSettings()
	v := loaded(t, svc)

	v.Update(keyMsg("j"))
	v.Update(keyMsg("enter"))
	require.Equal(t, SectionDetection, v.Section())

	for _, r := range "hf_secret" {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := v.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, "hf_secret", svc.sets[services.KeyDetectionToken])
}

func TestView_SetDetectionToken_EmptyIgnored(t *testing.T) {
	v := loaded(t, newMockSettings())
	v.Update(keyMsg("j"))
	v.Update(keyMsg("enter"))

	_, cmd := v.Update(keyMsg("enter"))

	assert.Nil(t, cmd)
	assert.Equal(t, SectionDetection, v.Section())
}

func TestView_SaveError(t *testing.T) {
	svc := newMockSettings()
	svc.setErr = errors.New("read-only config")
	v := loaded(t, svc)

	v.Update(keyMsg("enter"))
	_, cmd := v.Update(keyMsg("enter"))
	_, next := v.Update(cmd())

	assert.Nil(t, next)
	assert.EqualError(t, v.Err(), "read-only config")
}

func TestView_Escape(t *testing.T) {
	v := loaded(t, newMockSettings())

	v.Update(keyMsg("enter"))
	v.Update(keyMsg("esc"))
	assert.Equal(t, SectionOverview, v.Section())

	_, cmd := v.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Reload(t *testing.T) {
	svc := newMockSettings()
	v := loaded(t, svc)
	svc.settings.EventBrokers = []string{"localhost:9092"}

	_, cmd := v.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Contains(t, v.View(), "localhost:9092 -> vendee.events")
}

func TestView_Reset(t *testing.T) {
	v := loaded(t, newMockSettings())
	v.Update(keyMsg("enter"))

	v.Reset()

	assert.Equal(t, SectionOverview, v.Section())
	assert.NoError(t, v.Err())
}
