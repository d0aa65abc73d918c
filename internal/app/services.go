package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avetisov/dimmerd/internal/colortemp"
	"github.com/avetisov/dimmerd/internal/config"
	"github.com/avetisov/dimmerd/internal/db"
	"github.com/avetisov/dimmerd/internal/display"
	"github.com/avetisov/dimmerd/internal/kv"
	"github.com/avetisov/dimmerd/internal/location"
	"github.com/avetisov/dimmerd/internal/preset"
	"github.com/avetisov/dimmerd/internal/schedule"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure
	DB *db.DB
	TZ *time.Location

	// Domain state
	Displays *display.Table
	Location *location.Provider
	Presets  *preset.Store

	// Automation engine
	ColorTemp *colortemp.Manager
	Schedules *schedule.Manager
	Engine    *Engine
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	// Initialize database
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	s.DB = database

	// Timezone for the local calendar
	tz, err := time.LoadLocation(cfg.Location.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Location.Timezone).Msg("Failed to load timezone, using UTC")
		tz = time.UTC
	}
	s.TZ = tz

	// Location provider: last-known persisted in kv, config coords win
	s.Location = location.NewProvider(kv.NewSQLiteBucket(database.DB, "location"))
	if cfg.Location.Lat != nil && cfg.Location.Lon != nil {
		if err := s.Location.Set(*cfg.Location.Lat, *cfg.Location.Lon); err != nil {
			log.Warn().Err(err).Msg("Ignoring invalid configured location")
		}
	}
	if s.Location.Current() == nil {
		log.Warn().Msg("No location available, solar features are inactive until one is set")
	}

	// Display table, seeded from config. Connect/disconnect events from the
	// output layer drive the table after startup.
	s.Displays = display.NewTable()
	for _, id := range cfg.Engine.Displays {
		s.Displays.Upsert(id, display.DefaultState())
	}
	s.Displays.SetOnChange(logOutput)

	// Preset store
	s.Presets = preset.NewStore(database.DB)

	// Color temperature automation. The user's enable/disable toggle is
	// persisted in the settings bucket and wins over the config default.
	s.ColorTemp = colortemp.NewManager(s.Displays, s.Location, colortemp.Options{
		DayKelvin:          cfg.ColorTemp.DayKelvin,
		NightKelvin:        cfg.ColorTemp.NightKelvin,
		TransitionDuration: cfg.ColorTemp.Transition.Duration(),
		Timezone:           tz,
		Enabled:            cfg.ColorTemp.GetEnabled(),
		Settings:           kv.NewSQLiteBucket(database.DB, "settings"),
	})

	// Schedule manager, firing presets into the display table
	s.Schedules = schedule.NewManager(
		s.Location, tz, s.applyPreset,
		schedule.NewStore(database.DB),
		time.Now(),
	)

	// Engine tick loop drives both managers
	s.Engine = NewEngine(cfg.Engine.TickInterval.Duration(), tz, s.ColorTemp, s.Schedules)

	return s, nil
}

// applyPreset resolves and applies a fired schedule's preset. A dangling
// preset reference logs a warning and has no side effects.
func (s *Services) applyPreset(sched schedule.Schedule) {
	p, err := s.Presets.Get(sched.PresetID)
	if err != nil {
		log.Error().Err(err).Str("preset_id", sched.PresetID).Msg("Failed to resolve preset")
		return
	}
	if p == nil {
		log.Warn().
			Str("schedule_id", sched.ID).
			Str("preset_id", sched.PresetID).
			Msg("Schedule references a deleted preset, skipping")
		return
	}

	p.Apply(s.Displays)
	if p.SpecifiesWarmth() {
		s.ColorTemp.NotifyManualWarmth()
	}

	log.Info().
		Str("preset_id", p.ID).
		Str("preset", p.Name).
		Msg("Preset applied")
}

// logOutput is the default display output layer: it logs the final values.
// A real deployment replaces this with a gamma/DDC writer.
func logOutput(id string, st display.State) {
	r, g, b := display.ChannelMultipliers(st.Warmth)
	log.Debug().
		Str("display", id).
		Float64("brightness", st.Brightness).
		Float64("warmth", st.Warmth).
		Float64("contrast", st.Contrast).
		Float64("r", r).
		Float64("g", g).
		Float64("b", b).
		Msg("Display output")
}

// Close releases held resources.
func (s *Services) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
