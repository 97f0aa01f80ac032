package installer

import "strings"

// Intermediate keys, dropped before the env file is written.
const (
	keyChannel = "_CHANNEL"
)

type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

func (s *InstallState) Get(key string) string {
	return s.EnvVars[key]
}

func (s *InstallState) Set(key, value string) {
	s.EnvVars[key] = strings.TrimSpace(value)
}

func (s *InstallState) Provider() string {
	return strings.ToLower(s.EnvVars["LLM_PROVIDER"])
}

func (s *InstallState) UsesTelegram() bool {
	return s.EnvVars[keyChannel] == "telegram" || s.EnvVars[keyChannel] == "both"
}
