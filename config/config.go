package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Booking BookingConfig
	Cache   CacheConfig
	Admin   AdminConfig
	CORS    CORSConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN is the keyword/value form used by the gorm postgres driver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

// URL returns the connection string used by the migration runner.
func (c DBConfig) URL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// BookingConfig holds the appointment allocation policy.
type BookingConfig struct {
	AllowedWeekdays         []time.Weekday
	AdvanceWindowDays       int
	CancellationCutoffHours int
	SlotsPerDay             int
	SlotDuration            time.Duration
	DayStart                time.Duration // offset from local midnight
	Location                *time.Location
	CalendarSize            int
}

// IsAllowedWeekday reports whether bookings may be placed on d.
func (c BookingConfig) IsAllowedWeekday(d time.Weekday) bool {
	for _, w := range c.AllowedWeekdays {
		if w == d {
			return true
		}
	}
	return false
}

// CancellationCutoff returns the minimum lead time for a non-admin cancel.
func (c BookingConfig) CancellationCutoff() time.Duration {
	return time.Duration(c.CancellationCutoffHours) * time.Hour
}

// CORSConfig lists browser origins allowed to call the API. "*" allows any.
type CORSConfig struct {
	AllowedOrigins []string
}

type CacheConfig struct {
	DoctorTTL time.Duration
}

// AdminConfig carries the bootstrap administrator account. Nothing is seeded
// when Email or Password is empty.
type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

func (c AdminConfig) Enabled() bool {
	return c.Email != "" && c.Password != ""
}

// DefaultBookingConfig mirrors the defaults registered with viper.
func DefaultBookingConfig() BookingConfig {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.UTC
	}
	return BookingConfig{
		AllowedWeekdays:         []time.Weekday{time.Friday},
		AdvanceWindowDays:       7,
		CancellationCutoffHours: 24,
		SlotsPerDay:             12,
		SlotDuration:            30 * time.Minute,
		DayStart:                9 * time.Hour,
		Location:                loc,
		CalendarSize:            8,
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ISSUER", "medical-appointment-booking")
	viper.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	viper.SetDefault("JWT_REFRESH_EXPIRY", "168h")
	viper.SetDefault("BOOKING_ALLOWED_WEEKDAYS", "friday")
	viper.SetDefault("BOOKING_WINDOW_DAYS", 7)
	viper.SetDefault("BOOKING_CANCEL_CUTOFF_HOURS", 24)
	viper.SetDefault("BOOKING_SLOTS_PER_DAY", 12)
	viper.SetDefault("BOOKING_SLOT_MINUTES", 30)
	viper.SetDefault("BOOKING_DAY_START", "09:00")
	viper.SetDefault("BOOKING_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("BOOKING_CALENDAR_SIZE", 8)
	viper.SetDefault("DOCTOR_CACHE_TTL", "5m")
	viper.SetDefault("ADMIN_FULL_NAME", "Administrator")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	doctorTTL, err := time.ParseDuration(viper.GetString("DOCTOR_CACHE_TTL"))
	if err != nil {
		doctorTTL = 5 * time.Minute
	}

	connLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		connLifetime = 30 * time.Minute
	}

	booking, err := loadBookingConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),

			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connLifetime,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			Issuer:        viper.GetString("JWT_ISSUER"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Booking: booking,
		Cache: CacheConfig{
			DoctorTTL: doctorTTL,
		},
		Admin: AdminConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
			FullName: viper.GetString("ADMIN_FULL_NAME"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	return config, nil
}

func loadBookingConfig() (BookingConfig, error) {
	weekdays, err := ParseWeekdays(viper.GetString("BOOKING_ALLOWED_WEEKDAYS"))
	if err != nil {
		return BookingConfig{}, err
	}

	dayStart, err := ParseClock(viper.GetString("BOOKING_DAY_START"))
	if err != nil {
		return BookingConfig{}, err
	}

	loc, err := time.LoadLocation(viper.GetString("BOOKING_TIMEZONE"))
	if err != nil {
		return BookingConfig{}, fmt.Errorf("invalid BOOKING_TIMEZONE: %w", err)
	}

	cfg := BookingConfig{
		AllowedWeekdays:         weekdays,
		AdvanceWindowDays:       viper.GetInt("BOOKING_WINDOW_DAYS"),
		CancellationCutoffHours: viper.GetInt("BOOKING_CANCEL_CUTOFF_HOURS"),
		SlotsPerDay:             viper.GetInt("BOOKING_SLOTS_PER_DAY"),
		SlotDuration:            time.Duration(viper.GetInt("BOOKING_SLOT_MINUTES")) * time.Minute,
		DayStart:                dayStart,
		Location:                loc,
		CalendarSize:            viper.GetInt("BOOKING_CALENDAR_SIZE"),
	}

	if cfg.SlotsPerDay <= 0 || cfg.SlotDuration <= 0 {
		return BookingConfig{}, errors.New("slots per day and slot duration must be positive")
	}
	if cfg.DayStart+time.Duration(cfg.SlotsPerDay)*cfg.SlotDuration > 24*time.Hour {
		return BookingConfig{}, errors.New("slot grid does not fit in a single day")
	}

	return cfg, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekdays parses a comma separated list such as "friday" or "mon,fri".
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	seen := make(map[time.Weekday]bool)

	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}

		day, ok := weekdayNames[name]
		if !ok {
			for full, d := range weekdayNames {
				if len(name) >= 3 && strings.HasPrefix(full, name) {
					day, ok = d, true
					break
				}
			}
		}
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}

	if len(days) == 0 {
		return nil, errors.New("at least one allowed weekday is required")
	}
	return days, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseClock parses HH:MM into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, use HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
