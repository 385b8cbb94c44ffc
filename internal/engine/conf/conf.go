package conf

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-compass/compass/pkg/database"
	"github.com/go-compass/compass/pkg/log"
	"github.com/go-compass/compass/pkg/server"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Log      log.LogConfig     `mapstructure:"log"`
	Http     server.Http       `mapstructure:"http"`
	Database database.Database `mapstructure:"database"`
	Menu     MenuConfig        `mapstructure:"menu"`
}

// MenuConfig 菜单树引擎配置
type MenuConfig struct {
	SuperRole string `mapstructure:"superRole"` // 不受角色列表限制的特权角色
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confFile string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confFile)
		if err != nil {
			panic(fmt.Sprintf("load conf file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile load conf file
func LoadConfigFile(confFile string) (AppConfig, error) {
	config := viper.New()
	config.SetConfigFile(confFile)
	config.AddConfigPath("./conf.d")
	config.SetConfigName("config")
	config.SetConfigType("toml")
	if err := config.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %v", err)
	}

	// 配置变更时重新解析
	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("configuration changed, re-parsing the configuration file: %s", e.Name)
		if err := config.Unmarshal(&cfg); err != nil {
			log.Errorf("failed to unmarshal configuration file: %v", err)
		}
	})
	if err := config.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}
	fmt.Printf("[Init] config file path: %s\n", confFile)

	return cfg, nil
}
