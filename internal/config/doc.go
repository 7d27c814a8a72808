// Package config provides the configuration of bikereport: defaults, the
// optional .bikereport.yaml file and validation of the combined result.
package config
