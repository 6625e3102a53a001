package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"

	"github.com/openshelf/openshelf/pkg/common"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type SmtpConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system" json:"system"`
	Web      WebConfig  `yaml:"web" json:"web"`
	Database DBConfig   `yaml:"database" json:"database"`
	Logger   LogConfig  `yaml:"logger" json:"logger"`
	Smtp     SmtpConfig `yaml:"smtp" json:"smtp"`
}

var DefaultAppConfig = AppConfig{
	System: SysConfig{
		Appid:    "Openshelf",
		Location: "Asia/Jakarta",
		Workdir:  "/var/openshelf",
		Debug:    true,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1880,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "openshelf",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/openshelf/openshelf.log",
	},
	Smtp: SmtpConfig{
		Enabled: false,
		Host:    "localhost",
		Port:    25,
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

func setEnvIntValue(name string, f func(v int)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(cast.ToInt(evalue))
	}
}

// LoadConfig loads configuration from the given yaml file, falling back
// to defaults and applying OPENSHELF_* environment overrides.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" && common.FileExists(cfile) {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, &cfg)
		}
	}

	setEnvValue("OPENSHELF_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("OPENSHELF_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvBoolValue("OPENSHELF_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })

	setEnvValue("OPENSHELF_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvIntValue("OPENSHELF_WEB_PORT", func(v int) { cfg.Web.Port = v })

	setEnvValue("OPENSHELF_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("OPENSHELF_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvIntValue("OPENSHELF_DB_PORT", func(v int) { cfg.Database.Port = v })
	setEnvValue("OPENSHELF_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("OPENSHELF_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("OPENSHELF_DB_PWD", func(v string) { cfg.Database.Passwd = v })

	setEnvValue("OPENSHELF_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvBoolValue("OPENSHELF_LOGGER_FILE_ENABLE", func(v bool) { cfg.Logger.FileEnable = v })

	setEnvBoolValue("OPENSHELF_SMTP_ENABLED", func(v bool) { cfg.Smtp.Enabled = v })
	setEnvValue("OPENSHELF_SMTP_HOST", func(v string) { cfg.Smtp.Host = v })
	setEnvIntValue("OPENSHELF_SMTP_PORT", func(v int) { cfg.Smtp.Port = v })
	setEnvValue("OPENSHELF_SMTP_USERNAME", func(v string) { cfg.Smtp.Username = v })
	setEnvValue("OPENSHELF_SMTP_PASSWORD", func(v string) { cfg.Smtp.Password = v })
	setEnvValue("OPENSHELF_SMTP_FROM", func(v string) { cfg.Smtp.From = v })

	if cfg.Logger.Filename == "" {
		cfg.Logger.Filename = filepath.Join(cfg.System.Workdir, "openshelf.log")
	}
	return &cfg
}
