package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	NodeID   int64  `yaml:"node_id"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// PolicyConfig carries business policy switches that the order workflow
// and client deletion consult at runtime.
type PolicyConfig struct {
	// RestockOnCancel returns reserved quantities to stock when an
	// order is cancelled. Default false keeps cancelled reservations.
	RestockOnCancel bool `yaml:"restock_on_cancel"`
	// DeleteClientWithOrders is one of "forbid" or "cascade".
	DeleteClientWithOrders string `yaml:"delete_client_with_orders"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system"`
	Web      WebConfig    `yaml:"web"`
	Database DBConfig     `yaml:"database"`
	Logger   LogConfig    `yaml:"logger"`
	Policy   PolicyConfig `yaml:"policy"`
}

const (
	ClientDeleteForbid  = "forbid"
	ClientDeleteCascade = "cascade"
)

func DefaultConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "crmd",
			Location: "Local",
			Workdir:  "/var/crmd",
			NodeID:   1,
		},
		Web: WebConfig{
			Host:   "0.0.0.0",
			Port:   4000,
			Secret: "",
		},
		Database: DBConfig{
			Type:     "postgres",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "crmd",
			User:     "postgres",
			Passwd:   "",
			MaxConn:  50,
			IdleConn: 10,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/crmd/crmd.log",
		},
		Policy: PolicyConfig{
			RestockOnCancel:        false,
			DeleteClientWithOrders: ClientDeleteForbid,
		},
	}
}

// LoadConfig reads the YAML configuration file when present and applies
// CRMD_* environment overrides on top of the defaults.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultConfig()
	if cfile != "" {
		data, err := os.ReadFile(filepath.Clean(cfile))
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfile)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", cfile)
		}
	}
	applyEnv(cfg)
	if cfg.Policy.DeleteClientWithOrders == "" {
		cfg.Policy.DeleteClientWithOrders = ClientDeleteForbid
	}
	if cfg.Policy.DeleteClientWithOrders != ClientDeleteForbid &&
		cfg.Policy.DeleteClientWithOrders != ClientDeleteCascade {
		return nil, errors.Errorf("invalid policy.delete_client_with_orders %q", cfg.Policy.DeleteClientWithOrders)
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setString(&cfg.System.Workdir, "CRMD_WORKDIR")
	setString(&cfg.System.Location, "CRMD_LOCATION")
	setString(&cfg.Web.Host, "CRMD_WEB_HOST")
	setInt(&cfg.Web.Port, "CRMD_WEB_PORT")
	setString(&cfg.Web.Secret, "CRMD_WEB_SECRET")
	setString(&cfg.Database.Type, "CRMD_DB_TYPE")
	setString(&cfg.Database.Host, "CRMD_DB_HOST")
	setInt(&cfg.Database.Port, "CRMD_DB_PORT")
	setString(&cfg.Database.Name, "CRMD_DB_NAME")
	setString(&cfg.Database.User, "CRMD_DB_USER")
	setString(&cfg.Database.Passwd, "CRMD_DB_PASSWD")
	setBool(&cfg.Database.Debug, "CRMD_DB_DEBUG")
	setString(&cfg.Logger.Mode, "CRMD_LOG_MODE")
	setBool(&cfg.Policy.RestockOnCancel, "CRMD_RESTOCK_ON_CANCEL")
	setString(&cfg.Policy.DeleteClientWithOrders, "CRMD_DELETE_CLIENT_WITH_ORDERS")
}

func setString(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*target = v
	}
}

func setInt(target *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*target = cast.ToInt(v)
	}
}

func setBool(target *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*target = cast.ToBool(v)
	}
}
