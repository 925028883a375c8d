package settings

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/u7wells/flowo/internal/schedule"
	"github.com/u7wells/flowo/internal/store"
)

type memSnapshots struct {
	data  map[string][]byte
	saves int
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{data: make(map[string][]byte)}
}

func (m *memSnapshots) SaveSnapshot(name string, data []byte) error {
	m.saves++
	m.data[name] = append([]byte(nil), data...)
	return nil
}

func (m *memSnapshots) LoadSnapshot(name string) ([]byte, error) {
	d, ok := m.data[name]
	if !ok {
		return nil, fmt.Errorf("snapshot %q: %w", name, store.ErrSnapshotNotFound)
	}
	return d, nil
}

func ptr[T any](v T) *T { return &v }

// ============================================================
// Defaults
// ============================================================

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, 15*time.Minute, d.MinSession)
	assert.Equal(t, 15*time.Minute, d.BreakTime)
	assert.Equal(t, NotifyPush, d.DefaultNotificationType)
	assert.Equal(t, "DD-MM-YYYY", d.DateFormat)
	assert.True(t, d.Is24HourFormat)
	assert.Equal(t, ThemeSystem, d.ThemeMode)
	assert.Equal(t, int64(0x007AFF), d.CustomColor)
	assert.Equal(t, int64(0x34C759), d.SecondaryColor)
	assert.Equal(t, 1.0, d.ColorIntensity)
	assert.Len(t, d.DaySchedules, 7)
	assert.Len(t, d.ActiveDays, 7)
	for _, day := range schedule.Weekdays {
		assert.True(t, d.ActiveDays[day], day)
		assert.Equal(t, schedule.DefaultDaySchedule(day), d.DaySchedules[day])
	}

	p := DefaultProfile()
	assert.False(t, p.OnboardingCompleted)
}

func TestSettingsReturnsCopy(t *testing.T) {
	s := NewStore()
	got := s.Settings()
	got.DaySchedules["Monday"] = schedule.DaySchedule{}
	got.ActiveDays["Monday"] = false

	again := s.Settings()
	assert.True(t, again.ActiveDays["Monday"])
	assert.Equal(t, schedule.DefaultDaySchedule("Monday"), again.DaySchedules["Monday"])
}

// ============================================================
// Setters
// ============================================================

func TestUpdateUserSettings(t *testing.T) {
	s := NewStore()
	got := s.UpdateUserSettings(
		WithName("Ada"),
		WithMinSession(25*time.Minute),
		WithBreakTime(0),
		WithNotificationType("pigeon"),
		WithNotificationType(NotifyEmail),
		WithGradientAlignment("top", "bottom"),
	)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, 25*time.Minute, got.MinSession)
	assert.Equal(t, 15*time.Minute, got.BreakTime)
	assert.Equal(t, NotifyEmail, got.DefaultNotificationType)
	assert.Equal(t, "top", got.GradientStartAlignment)
}

func TestThemeAndColors(t *testing.T) {
	s := NewStore()
	assert.Equal(t, ThemeDark, s.UpdateTheme(ThemeDark).ThemeMode)
	assert.Equal(t, ThemeDark, s.UpdateTheme("neon").ThemeMode)
	assert.Equal(t, int64(0xFF3B30), s.UpdateCustomColor(0xFF3B30).CustomColor)
	assert.True(t, s.UpdateUseGradient(true).UseGradient)
	assert.False(t, s.UpdateUseDynamicColors(false).UseDynamicColors)
}

func TestIntensityAndNoiseClamped(t *testing.T) {
	s := NewStore()
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0.4, 0.4},
		{1.7, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.UpdateColorIntensity(tt.in).ColorIntensity)
		assert.Equal(t, tt.want, s.UpdateNoiseLevel(tt.in).NoiseLevel)
	}
}

func TestUpdateDateTimeFormat(t *testing.T) {
	s := NewStore()
	got := s.UpdateDateTimeFormat(false, "MM/DD/YYYY", "short")
	assert.False(t, got.Is24HourFormat)
	assert.Equal(t, "MM/DD/YYYY", got.DateFormat)
	assert.Equal(t, "short", got.MonthFormat)
}

func TestUpdateAccessibilityPartial(t *testing.T) {
	s := NewStore()
	s.UpdateAccessibility(Accessibility{TextSizeAdjustment: ptr(0.2), ReduceMotion: ptr(true)})

	got := s.UpdateAccessibility(Accessibility{HighContrastMode: ptr(true)})
	assert.Equal(t, 0.2, got.TextSizeAdjustment)
	assert.True(t, got.ReduceMotion)
	assert.True(t, got.HighContrastMode)
}

// ============================================================
// Day schedules
// ============================================================

func TestUpdateDaySchedule(t *testing.T) {
	s := NewStore()
	sleep := schedule.Frame(23, 30, 6, 30)

	got := s.UpdateSleepTime("tuesday", sleep)
	tue := got.DaySchedules["Tuesday"]
	assert.Equal(t, sleep, tue.Sleep)
	assert.Equal(t, schedule.DefaultDaySchedule("Tuesday").MealBreaks, tue.MealBreaks)

	frames := []schedule.TimeFrame{schedule.Frame(12, 30, 13, 0)}
	got = s.UpdateMealBreaks("Tuesday", frames)
	frames[0] = schedule.Frame(0, 0, 0, 0)
	assert.Equal(t, schedule.Frame(12, 30, 13, 0), got.DaySchedules["Tuesday"].MealBreaks[0])

	got = s.UpdateFreeTimes("Tuesday", nil)
	assert.Empty(t, got.DaySchedules["Tuesday"].FreeTimes)
	assert.Equal(t, sleep, got.DaySchedules["Tuesday"].Sleep)
}

func TestUpdateDayScheduleCreatesMissingDay(t *testing.T) {
	s := NewStore()
	s.UpdateUserSettings(func(u *UserSettings) { delete(u.DaySchedules, "Friday") })

	got := s.UpdateDaySchedule("Friday", DayActive(false))
	fri := got.DaySchedules["Friday"]
	assert.False(t, fri.Active)
	assert.Equal(t, schedule.DefaultDaySchedule("Friday").Sleep, fri.Sleep)
}

func TestUpdateDayScheduleUnknownDay(t *testing.T) {
	snaps := newMemSnapshots()
	s := NewStore(WithPersister(snaps))
	before := s.Settings()

	after := s.UpdateDaySchedule("Funday", DayActive(false))
	assert.Equal(t, before, after)
	assert.Zero(t, snaps.saves)
}

func TestUpdateActiveDays(t *testing.T) {
	s := NewStore()
	got := s.UpdateActiveDays(map[string]bool{"saturday": false, "Sunday": false, "Holiday": true})

	assert.Equal(t, map[string]bool{"Saturday": false, "Sunday": false}, got.ActiveDays)
	assert.False(t, got.DaySchedules["Saturday"].Active)
	assert.True(t, got.DaySchedules["Monday"].Active)
	assert.Zero(t, got.DaySchedules["Sunday"].FreeDuration())
}

// ============================================================
// Profile
// ============================================================

func TestProfile(t *testing.T) {
	s := NewStore()
	p := s.UpdateUserProfile(ProfileName("Ada"), ProfileEmail("ada@example.com"))
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "ada@example.com", p.Email)

	p = s.UpdateUserGoal("Ship v1")
	assert.Equal(t, "Ship v1", p.Goal)
	assert.False(t, p.OnboardingCompleted)

	p = s.CompleteOnboarding()
	assert.True(t, p.OnboardingCompleted)
	assert.Equal(t, "Ada", s.Profile().Name)
}

// ============================================================
// Persistence
// ============================================================

func TestPersistAndLoad(t *testing.T) {
	snaps := newMemSnapshots()
	s := NewStore(WithPersister(snaps))
	s.UpdateTheme(ThemeLight)
	s.UpdateSleepTime("Monday", schedule.Frame(0, 0, 8, 0))
	s.CompleteOnboarding()
	assert.Equal(t, 3, snaps.saves)

	loaded, err := LoadStore(snaps)
	require.NoError(t, err)
	assert.Equal(t, s.Settings(), loaded.Settings())
	assert.Equal(t, s.Profile(), loaded.Profile())
}

func TestLoadStoreMissingGivesDefaults(t *testing.T) {
	s, err := LoadStore(newMemSnapshots())
	require.NoError(t, err)
	assert.Equal(t, Default(), s.Settings())
	assert.Equal(t, DefaultProfile(), s.Profile())
}

func TestLoadStoreIncompatible(t *testing.T) {
	snaps := newMemSnapshots()
	snaps.data[SnapshotName] = []byte(`{"version":3}`)
	s, err := LoadStore(snaps)
	assert.True(t, errors.Is(err, ErrSnapshotVersion))
	assert.Equal(t, Default(), s.Settings())

	snaps.data[SnapshotName] = []byte(`{`)
	_, err = LoadStore(snaps)
	assert.Error(t, err)
}
