package registry

import (
	"strings"
)

// Ecosystem tags used in Package.RegistryName.
const (
	EcosystemDocker = "docker"
	EcosystemNPM    = "npm"
)

// ArgumentTypePositional marks an argument whose value is passed without a flag name.
const ArgumentTypePositional = "positional"

// Server is one published server description returned by the registry.
// The list endpoint returns a summary of each entry; the detail endpoint returns the full record.
type Server struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Description   string        `json:"description" yaml:"description"`
	Repository    Repository    `json:"repository" yaml:"repository"`
	VersionDetail VersionDetail `json:"version_detail" yaml:"version_detail"`
	Packages      []Package     `json:"packages" yaml:"packages"`
}

// Repository describes where the server's source code lives.
type Repository struct {
	URL    string `json:"url" yaml:"url"`
	Source string `json:"source" yaml:"source"`
	ID     string `json:"id" yaml:"id"`
}

// VersionDetail holds the version metadata of a registry entry.
type VersionDetail struct {
	Version     string `json:"version" yaml:"version"`
	ReleaseDate string `json:"release_date" yaml:"release_date"`
	IsLatest    bool   `json:"is_latest" yaml:"is_latest"`
}

// Package is one distribution artifact for a registry entry.
type Package struct {
	RegistryName         string                `json:"registry_name" yaml:"registry_name"`
	Name                 string                `json:"name" yaml:"name"`
	Version              string                `json:"version,omitempty" yaml:"version,omitempty"`
	RuntimeHint          string                `json:"runtime_hint,omitempty" yaml:"runtime_hint,omitempty"`
	RuntimeArguments     []Argument            `json:"runtime_arguments" yaml:"runtime_arguments"`
	PackageArguments     []Argument            `json:"package_arguments" yaml:"package_arguments"`
	EnvironmentVariables []EnvironmentVariable `json:"environment_variables" yaml:"environment_variables"`
}

// Argument describes a single launch argument for a package.
type Argument struct {
	Type        string `json:"type" yaml:"type"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	ValueHint   string `json:"value_hint,omitempty" yaml:"value_hint,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
	IsRequired  bool   `json:"is_required,omitempty" yaml:"is_required,omitempty"`
}

// EnvironmentVariable is an environment variable a package expects to be set.
// Registry entries never carry values for these.
type EnvironmentVariable struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ListResponse is the body returned by the list endpoint.
type ListResponse struct {
	Servers  []Server     `json:"servers" yaml:"servers"`
	Metadata ListMetadata `json:"metadata" yaml:"metadata"`
}

// ListMetadata carries the pagination state of a list response.
type ListMetadata struct {
	NextCursor string `json:"next_cursor,omitempty" yaml:"next_cursor,omitempty"`
	Count      int    `json:"count,omitempty" yaml:"count,omitempty"`
}

// FriendlyName returns the part of the server name after the last '/', or the whole name.
func (s Server) FriendlyName() string {
	return FriendlyName(s.Name)
}

// FriendlyName returns the part of name after the last '/', or the whole name when there is no separator.
func FriendlyName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// IsPositional reports whether the argument is a positional argument.
func (a Argument) IsPositional() bool {
	return strings.EqualFold(a.Type, ArgumentTypePositional)
}

// normalize replaces absent optional collections with empty ones so callers never need nil checks.
func (s *Server) normalize() {
	if s.Packages == nil {
		s.Packages = []Package{}
	}
	for i := range s.Packages {
		p := &s.Packages[i]
		if p.RuntimeArguments == nil {
			p.RuntimeArguments = []Argument{}
		}
		if p.PackageArguments == nil {
			p.PackageArguments = []Argument{}
		}
		if p.EnvironmentVariables == nil {
			p.EnvironmentVariables = []EnvironmentVariable{}
		}
	}
}
