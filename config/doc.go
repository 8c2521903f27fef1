// Package config loads service configuration with Viper.
//
// Values come from a YAML config file, an optional .env file and the
// process environment, in increasing precedence. Environment keys map onto
// nested mapstructure keys by splitting on underscores:
//
//	AUTHCLIENT_HTTP_BASE_URL=https://dummyjson.com  ->  http.base_url
//
// # Usage
//
//	var cfg AppConfig
//	err := config.Load("authclient", &cfg, config.WithEnvPrefix("AUTHCLIENT"))
package config
