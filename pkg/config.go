package pysubscript

import (
	"io/ioutil"
	"runtime"

	"github.com/pkg/errors"
	"github.com/vilterp/pysubscript/pkg/pyversion"
	"sigs.k8s.io/yaml"
)

// Config is read from YAML or JSON; pyrightconfig.json files work as
// is since unknown keys are ignored.
type Config struct {
	PythonVersion pyversion.Version `json:"pythonVersion"`
	// Workers bounds how many files are checked at once.
	Workers   int    `json:"workers"`
	CacheFile string `json:"cacheFile"`
	Listen    string `json:"listen"`
}

func DefaultConfig() Config {
	return Config{
		PythonVersion: pyversion.Latest,
		Workers:       runtime.NumCPU(),
		Listen:        "0.0.0.0:9000",
	}
}

// LoadConfig overlays the file at path on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "decoding config %s", path)
	}
	if err := cfg.validate(path); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// OverridePythonVersion sets the target from a command-line value,
// validating it like a config file entry.
func (cfg Config) OverridePythonVersion(version string) (Config, error) {
	v, err := pyversion.Parse(version)
	if err != nil {
		return cfg, &invalidConfig{Path: "command line", Field: "pythonVersion", Reason: err.Error()}
	}
	cfg.PythonVersion = v
	if err := cfg.validate("command line"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg Config) validate(path string) error {
	if cfg.PythonVersion.Major != 3 {
		return &invalidConfig{Path: path, Field: "pythonVersion", Reason: "only Python 3 targets are supported"}
	}
	if cfg.Workers < 1 {
		return &invalidConfig{Path: path, Field: "workers", Reason: "must be at least 1"}
	}
	return nil
}
