package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "WORKLOGS_"

type Application struct {
	Server       Server       `koanf:"server"`
	Database     Database     `koanf:"db"`
	TicketStore  TicketStore  `koanf:"ticketstore"`
	WorklogStore WorklogStore `koanf:"worklogstore"`
	Report       Report       `koanf:"report"`
	Google       Google       `koanf:"google"`
	Auth         Auth         `koanf:"auth"`
	Log          Log          `koanf:"log"`
}

type Server struct {
	Addr           string        `koanf:"addr"`
	ReadTimeout    time.Duration `koanf:"readtimeout"`
	WriteTimeout   time.Duration `koanf:"writetimeout"`
	AllowedOrigins []string      `koanf:"allowedorigins"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// TicketStore points at the remote API that owns tickets.
type TicketStore struct {
	BaseURL           string        `koanf:"baseurl"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requestspersecond"`
	AcceptedStatuses  []string      `koanf:"acceptedstatuses"`
	// Client credentials are optional; without a token URL requests go out unauthenticated.
	TokenURL     string `koanf:"tokenurl"`
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
}

type WorklogStore struct {
	// Mode is "local" (Postgres of this service) or "remote" (POST to URL).
	Mode    string        `koanf:"mode"`
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

type Report struct {
	DailyTargetHours float64  `koanf:"dailytargethours"`
	MaxItemHours     float64  `koanf:"maxitemhours"`
	DefaultItemHours float64  `koanf:"defaultitemhours"`
	Timezone         string   `koanf:"timezone"`
	OnlineEmployees  []string `koanf:"onlineemployees"`
}

// Location resolves Timezone, falling back to the process local zone.
func (r Report) Location() *time.Location {
	if r.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		log.Warnf("unknown report timezone %q, using local time: %v", r.Timezone, err)
		return time.Local
	}
	return loc
}

type Google struct {
	APIKey            string `koanf:"apikey"`
	HolidayCalendarId string `koanf:"holidaycalendarid"`
}

type Auth struct {
	Secret   string `koanf:"secret"`
	Disabled bool   `koanf:"disabled"`
}

type Log struct {
	Level      string `koanf:"level"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"maxsizemb"`
	MaxBackups int    `koanf:"maxbackups"`
}

func defaults() Application {
	return Application{
		Server: Server{
			Addr:           ":8181",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "worklogs",
			Pass:   "",
			Name:   "worklogs",
			Schema: "worklogs",
		},
		TicketStore: TicketStore{
			BaseURL:           "http://localhost:4000",
			Timeout:           20 * time.Second,
			RequestsPerSecond: 5,
			AcceptedStatuses:  []string{"Completed", "Verified"},
		},
		WorklogStore: WorklogStore{
			Mode:    "local",
			Timeout: 20 * time.Second,
		},
		Report: Report{
			DailyTargetHours: 6,
			MaxItemHours:     6,
			DefaultItemHours: 6,
			Timezone:         "Asia/Kolkata",
		},
		Google: Google{
			HolidayCalendarId: "en.indian#holiday@group.v.calendar.google.com",
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  16,
			MaxBackups: 8,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	// .env only fills variables that are not already set in the environment
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found in working directory")
	}

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key. List values are split on commas by the default decode hook.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
