package bootstrap

import (
	"github.com/kbukum/authclient/config"
)

// Config is the constraint for application configuration types. Structs
// embedding config.ServiceConfig by value satisfy it through promoted
// methods once they define their own ApplyDefaults and Validate.
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    HTTP httpclient.Config `yaml:"http" mapstructure:"http"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
