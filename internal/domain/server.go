package domain

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultServerAddress        = "https://periphery:8120"
	DefaultServerTimeoutSeconds = 3
)

// ServerState is the health summary reported for a server.
type ServerState string

const (
	ServerStateOk       ServerState = "ok"
	ServerStateNotOk    ServerState = "not-ok"
	ServerStateDisabled ServerState = "disabled"
)

// MaintenanceWindow is stored and returned as-is; alerting owns its shape.
type MaintenanceWindow map[string]any

// ServerConfig describes a managed host and how to reach its periphery agent.
type ServerConfig struct {
	// The http address of the periphery agent.
	Address string `json:"address" bson:"address"`

	// Optional Cloudflare access credentials. Stored only; any headers the
	// agent needs go in RequestHeaders.
	AccessClientID     string `json:"access_client_id,omitempty" bson:"access_client_id,omitempty"`
	AccessClientSecret string `json:"access_client_secret,omitempty" bson:"access_client_secret,omitempty"`

	// Address used for links to containers on the server. Falls back to Address.
	ExternalAddress string `json:"external_address,omitempty" bson:"external_address,omitempty"`
	Region          string `json:"region,omitempty" bson:"region,omitempty"`

	// No actions may be performed against a disabled server.
	Enabled        bool  `json:"enabled" bson:"enabled"`
	TimeoutSeconds int64 `json:"timeout_seconds" bson:"timeout_seconds"`

	// Empty means the core passkey is used.
	Passkey        string            `json:"passkey,omitempty" bson:"passkey,omitempty"`
	RequestHeaders map[string]string `json:"request_headers,omitempty" bson:"request_headers,omitempty"`

	IgnoreMounts    []string `json:"ignore_mounts,omitempty" bson:"ignore_mounts,omitempty"`
	StatsMonitoring bool     `json:"stats_monitoring" bson:"stats_monitoring"`
	AutoPrune       bool     `json:"auto_prune" bson:"auto_prune"`
	Links           []string `json:"links,omitempty" bson:"links,omitempty"`

	SendUnreachableAlerts     bool `json:"send_unreachable_alerts" bson:"send_unreachable_alerts"`
	SendCPUAlerts             bool `json:"send_cpu_alerts" bson:"send_cpu_alerts"`
	SendMemAlerts             bool `json:"send_mem_alerts" bson:"send_mem_alerts"`
	SendDiskAlerts            bool `json:"send_disk_alerts" bson:"send_disk_alerts"`
	SendVersionMismatchAlerts bool `json:"send_version_mismatch_alerts" bson:"send_version_mismatch_alerts"`

	CPUWarning   float32 `json:"cpu_warning" bson:"cpu_warning"`
	CPUCritical  float32 `json:"cpu_critical" bson:"cpu_critical"`
	MemWarning   float64 `json:"mem_warning" bson:"mem_warning"`
	MemCritical  float64 `json:"mem_critical" bson:"mem_critical"`
	DiskWarning  float64 `json:"disk_warning" bson:"disk_warning"`
	DiskCritical float64 `json:"disk_critical" bson:"disk_critical"`

	MaintenanceWindows []MaintenanceWindow `json:"maintenance_windows,omitempty" bson:"maintenance_windows,omitempty"`
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:                   DefaultServerAddress,
		Enabled:                   false,
		TimeoutSeconds:            DefaultServerTimeoutSeconds,
		StatsMonitoring:           true,
		AutoPrune:                 true,
		SendUnreachableAlerts:     true,
		SendCPUAlerts:             true,
		SendMemAlerts:             true,
		SendDiskAlerts:            true,
		SendVersionMismatchAlerts: true,
		CPUWarning:                90.0,
		CPUCritical:               99.0,
		MemWarning:                75.0,
		MemCritical:               95.0,
		DiskWarning:               75.0,
		DiskCritical:              95.0,
	}
}

// serverConfigAlias drops the custom decoders so the defaults can be applied
// before the stored fields are decoded over them.
type serverConfigAlias ServerConfig

func (c *ServerConfig) UnmarshalJSON(data []byte) error {
	decoded := serverConfigAlias(DefaultServerConfig())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*c = ServerConfig(decoded)

	return nil
}

func (c *ServerConfig) UnmarshalBSON(data []byte) error {
	decoded := serverConfigAlias(DefaultServerConfig())
	if err := bson.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*c = ServerConfig(decoded)

	return nil
}

// Server is a managed host resource.
type Server struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	Name        string       `json:"name" bson:"name"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Tags        []string     `json:"tags,omitempty" bson:"tags,omitempty"`
	Config      ServerConfig `json:"config" bson:"config"`
}

func (s *Server) ResourceTarget() ResourceTarget {
	return ServerTarget(s.ID)
}
