package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/u7wells/flowo/internal/schedule"
	"github.com/u7wells/flowo/internal/store"
)

// SnapshotName is the key under which settings are persisted.
const SnapshotName = "settings-storage"

var ErrSnapshotVersion = errors.New("unsupported settings snapshot version")

const snapshotVersion = 1

type Persister interface {
	SaveSnapshot(name string, data []byte) error
}

type SnapshotLoader interface {
	LoadSnapshot(name string) ([]byte, error)
}

// Store owns the user settings and profile. Every update persists the
// whole state and returns a copy of the settings or profile after it.
type Store struct {
	mu        sync.Mutex
	settings  UserSettings
	profile   UserProfile
	log       *zap.Logger
	persister Persister
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persister = p
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		settings: Default(),
		profile:  DefaultProfile(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Settings() UserSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.clone()
}

func (s *Store) Profile() UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Store) update(fn func(*UserSettings)) UserSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.settings)
	s.persistLocked()
	return s.settings.clone()
}

func (s *Store) updateProfile(fn func(*UserProfile)) UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.profile)
	s.persistLocked()
	return s.profile
}

// UpdateUserSettings applies opts in order.
func (s *Store) UpdateUserSettings(opts ...SettingsOption) UserSettings {
	return s.update(func(u *UserSettings) {
		for _, opt := range opts {
			if opt != nil {
				opt(u)
			}
		}
	})
}

// UpdateTheme ignores unknown themes.
func (s *Store) UpdateTheme(theme AppTheme) UserSettings {
	return s.UpdateUserSettings(WithTheme(theme))
}

func (s *Store) UpdateCustomColor(color int64) UserSettings {
	return s.update(func(u *UserSettings) {
		u.CustomColor = color
	})
}

// UpdateColorIntensity clamps to [0, 1].
func (s *Store) UpdateColorIntensity(intensity float64) UserSettings {
	return s.update(func(u *UserSettings) {
		u.ColorIntensity = clamp01(intensity)
	})
}

// UpdateNoiseLevel clamps to [0, 1].
func (s *Store) UpdateNoiseLevel(level float64) UserSettings {
	return s.update(func(u *UserSettings) {
		u.NoiseLevel = clamp01(level)
	})
}

func (s *Store) UpdateUseGradient(use bool) UserSettings {
	return s.update(func(u *UserSettings) {
		u.UseGradient = use
	})
}

func (s *Store) UpdateUseDynamicColors(use bool) UserSettings {
	return s.update(func(u *UserSettings) {
		u.UseDynamicColors = use
	})
}

func (s *Store) UpdateDateTimeFormat(is24Hour bool, dateFormat, monthFormat string) UserSettings {
	return s.update(func(u *UserSettings) {
		u.Is24HourFormat = is24Hour
		u.DateFormat = dateFormat
		u.MonthFormat = monthFormat
	})
}

func (s *Store) UpdateAccessibility(a Accessibility) UserSettings {
	return s.update(func(u *UserSettings) {
		if a.TextSizeAdjustment != nil {
			u.TextSizeAdjustment = *a.TextSizeAdjustment
		}
		if a.ReduceMotion != nil {
			u.ReduceMotion = *a.ReduceMotion
		}
		if a.HighContrastMode != nil {
			u.HighContrastMode = *a.HighContrastMode
		}
	})
}

// UpdateDaySchedule merges opts into the schedule of day, starting from the
// default schedule when the day has none. Names are matched
// case-insensitively; an unknown weekday leaves the settings unchanged.
func (s *Store) UpdateDaySchedule(day string, opts ...DayOption) UserSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := schedule.NormalizeWeekday(day)
	if !ok {
		s.log.Debug("ignore unknown weekday", zap.String("day", day))
		return s.settings.clone()
	}
	ds, ok := s.settings.DaySchedules[key]
	if !ok {
		ds = schedule.DefaultDaySchedule(key)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&ds)
		}
	}
	if s.settings.DaySchedules == nil {
		s.settings.DaySchedules = make(map[string]schedule.DaySchedule, len(schedule.Weekdays))
	}
	s.settings.DaySchedules[key] = ds
	s.persistLocked()
	return s.settings.clone()
}

func (s *Store) UpdateSleepTime(day string, sleep schedule.TimeFrame) UserSettings {
	return s.UpdateDaySchedule(day, DaySleep(sleep))
}

func (s *Store) UpdateMealBreaks(day string, frames []schedule.TimeFrame) UserSettings {
	return s.UpdateDaySchedule(day, DayMealBreaks(frames))
}

func (s *Store) UpdateFreeTimes(day string, frames []schedule.TimeFrame) UserSettings {
	return s.UpdateDaySchedule(day, DayFreeTimes(frames))
}

// UpdateActiveDays replaces the active-day map. Each known day also carries
// its flag into its day schedule; unknown names are dropped.
func (s *Store) UpdateActiveDays(days map[string]bool) UserSettings {
	return s.update(func(u *UserSettings) {
		active := make(map[string]bool, len(schedule.Weekdays))
		for name, on := range days {
			key, ok := schedule.NormalizeWeekday(name)
			if !ok {
				continue
			}
			active[key] = on
		}
		if u.DaySchedules == nil {
			u.DaySchedules = make(map[string]schedule.DaySchedule, len(schedule.Weekdays))
		}
		for key, on := range active {
			ds, ok := u.DaySchedules[key]
			if !ok {
				ds = schedule.DefaultDaySchedule(key)
			}
			ds.Active = on
			u.DaySchedules[key] = ds
		}
		u.ActiveDays = active
	})
}

func (s *Store) UpdateUserProfile(opts ...ProfileOption) UserProfile {
	return s.updateProfile(func(p *UserProfile) {
		for _, opt := range opts {
			if opt != nil {
				opt(p)
			}
		}
	})
}

func (s *Store) CompleteOnboarding() UserProfile {
	return s.updateProfile(func(p *UserProfile) {
		p.OnboardingCompleted = true
	})
}

func (s *Store) UpdateUserGoal(goal string) UserProfile {
	return s.UpdateUserProfile(ProfileGoal(goal))
}

type snapshot struct {
	Version  int          `json:"version"`
	Settings UserSettings `json:"userSettings"`
	Profile  UserProfile  `json:"userProfile"`
}

func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encodeLocked()
}

func (s *Store) encodeLocked() ([]byte, error) {
	data, err := json.Marshal(snapshot{
		Version:  snapshotVersion,
		Settings: s.settings,
		Profile:  s.profile,
	})
	if err != nil {
		return nil, fmt.Errorf("encode settings snapshot: %w", err)
	}
	return data, nil
}

func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	data, err := s.encodeLocked()
	if err != nil {
		s.log.Warn("encode snapshot", zap.String("snapshot", SnapshotName), zap.Error(err))
		return
	}
	if err := s.persister.SaveSnapshot(SnapshotName, data); err != nil {
		s.log.Warn("save snapshot", zap.String("snapshot", SnapshotName), zap.Error(err))
	}
}

// Restore replaces settings and profile with a decoded snapshot.
func (s *Store) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode settings snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = snap.Settings
	s.profile = snap.Profile
	return nil
}

// LoadStore builds a store from the saved snapshot. A missing snapshot gives
// the defaults; on error the returned store holds the defaults too.
func LoadStore(loader SnapshotLoader, opts ...Option) (*Store, error) {
	s := NewStore(opts...)
	data, err := loader.LoadSnapshot(SnapshotName)
	if errors.Is(err, store.ErrSnapshotNotFound) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("load settings snapshot: %w", err)
	}
	if err := s.Restore(data); err != nil {
		return s, err
	}
	return s, nil
}
