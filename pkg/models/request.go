package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validation errors reported at the request boundary.
var (
	ErrMissingSections       = errors.New("Missing required fields: dbConfig and downloadConfig")
	ErrMissingDBFields       = errors.New("Missing required database configuration fields")
	ErrMissingDownloadFields = errors.New("Missing required download configuration fields")
)

// DBConfig describes how to reach the automation database.
type DBConfig struct {
	User     string      `json:"user" mapstructure:"user"`
	Password string      `json:"password" mapstructure:"password"`
	Server   string      `json:"server" mapstructure:"server"`
	Database string      `json:"database" mapstructure:"database"`
	Port     int         `json:"port,omitempty" mapstructure:"port"`
	Options  DBOptions   `json:"options" mapstructure:"options"`
	Pool     PoolOptions `json:"pool" mapstructure:"pool"`
}

// DBOptions holds connection options.
type DBOptions struct {
	Encrypt bool `json:"encrypt" mapstructure:"encrypt"`
}

// PoolOptions tunes the connection pool backing a session.
type PoolOptions struct {
	Min               int `json:"min" mapstructure:"min"`
	Max               int `json:"max" mapstructure:"max"`
	IdleTimeoutMillis int `json:"idleTimeoutMillis" mapstructure:"idle_timeout_millis"`
}

// Validate checks that the required connection fields are present.
func (c *DBConfig) Validate() error {
	if c == nil || c.User == "" || c.Password == "" || c.Server == "" || c.Database == "" {
		return ErrMissingDBFields
	}
	return nil
}

// DownloadConfig selects the controller to extract and where to write it.
type DownloadConfig struct {
	ControllerName    string      `json:"controllerName"`
	ControllerVersion FlexibleInt `json:"controllerVersion"`
	OutputPath        string      `json:"outputPath"`
}

// Ref returns the controller selection key.
func (c DownloadConfig) Ref() ControllerRef {
	return ControllerRef{Name: c.ControllerName, Version: int(c.ControllerVersion)}
}

// Validate checks that the required download fields are present.
func (c *DownloadConfig) Validate() error {
	if c == nil || c.ControllerName == "" || c.ControllerVersion == 0 || c.OutputPath == "" {
		return ErrMissingDownloadFields
	}
	return nil
}

// DownloadRequest is the inbound shape of a download.
type DownloadRequest struct {
	DB       *DBConfig       `json:"dbConfig"`
	Download *DownloadConfig `json:"downloadConfig"`
}

// Validate checks both sections of the request.
func (r *DownloadRequest) Validate() error {
	if r.DB == nil || r.Download == nil {
		return ErrMissingSections
	}
	if err := r.DB.Validate(); err != nil {
		return err
	}
	return r.Download.Validate()
}

// FlexibleInt decodes from a JSON number or a numeric JSON string, since
// HTML forms submit select values as strings.
type FlexibleInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		data = []byte(s)
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	*f = FlexibleInt(n)
	return nil
}
