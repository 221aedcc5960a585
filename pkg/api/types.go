package api

import "time"

const (
	ConfigVersion = 1

	DefaultEnvironmentDir = "venv"

	DefaultDockerfile   = "Dockerfile"
	DefaultCompose      = "docker-compose.yml"
	DefaultRequirements = "requirements.txt"
	DefaultSettings     = "settings.py"

	DefaultProbeTimeout   = 30 * time.Second
	DefaultCommandTimeout = 15 * time.Minute
	DefaultGracePeriod    = 10 * time.Second
)

// DefaultPackages is the package set installed into every new project.
var DefaultPackages = []string{
	"Django",
	"djangorestframework",
	"django-cors-headers",
	"drf-spectacular",
	"django-filter",
	"python-decouple",
	"djangorestframework-simplejwt",
}

// Config is the djscaffold configuration file format.
type Config struct {
	Version     int               `yaml:"version" validate:"eq=1"`
	Tools       ToolsConfig       `yaml:"tools"`
	Environment EnvironmentConfig `yaml:"environment"`
	Packages    []string          `yaml:"packages" validate:"min=1,dive,required"`
	Resources   ResourcesConfig   `yaml:"resources"`
	Timeouts    TimeoutsConfig    `yaml:"timeouts"`
}

// ToolsConfig names the external executables the pipeline spawns.
type ToolsConfig struct {
	Python      string `yaml:"python" validate:"required"`
	Pip         string `yaml:"pip" validate:"required"`
	Virtualenv  string `yaml:"virtualenv" validate:"required"` // python module name
	DjangoAdmin string `yaml:"djangoAdmin" validate:"required"`
	Shell       string `yaml:"shell" validate:"required"`
}

// EnvironmentConfig configures the isolated environment created inside the project.
type EnvironmentConfig struct {
	Dir           string `yaml:"dir" validate:"required,pathsegment"`
	ReuseExisting bool   `yaml:"reuseExisting"`
}

// ResourcesConfig locates the bundled files staged into a new project.
// An empty Dir selects the resources compiled into the binary.
type ResourcesConfig struct {
	Dir          string   `yaml:"dir"`
	Dockerfile   string   `yaml:"dockerfile" validate:"required"`
	Compose      string   `yaml:"compose" validate:"required"`
	Requirements string   `yaml:"requirements" validate:"required"`
	Settings     string   `yaml:"settings" validate:"required"`
	Extra        []string `yaml:"extra" validate:"dive,required"`
}

// TimeoutsConfig bounds how long spawned processes may run.
type TimeoutsConfig struct {
	Probe   time.Duration `yaml:"probe" validate:"gt=0"`
	Command time.Duration `yaml:"command" validate:"gt=0"`
	Grace   time.Duration `yaml:"grace" validate:"gte=0"`
}

// DefaultConfig returns the compiled-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: ConfigVersion,
		Tools: ToolsConfig{
			Python:      "python3",
			Pip:         "pip",
			Virtualenv:  "virtualenv",
			DjangoAdmin: "django-admin",
			Shell:       "sh",
		},
		Environment: EnvironmentConfig{
			Dir: DefaultEnvironmentDir,
		},
		Packages: append([]string(nil), DefaultPackages...),
		Resources: ResourcesConfig{
			Dockerfile:   DefaultDockerfile,
			Compose:      DefaultCompose,
			Requirements: DefaultRequirements,
			Settings:     DefaultSettings,
			Extra:        []string{".dockerignore"},
		},
		Timeouts: TimeoutsConfig{
			Probe:   DefaultProbeTimeout,
			Command: DefaultCommandTimeout,
			Grace:   DefaultGracePeriod,
		},
	}
}
