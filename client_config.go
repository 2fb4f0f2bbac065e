package wlsrealm

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pwszpl/go-wlsrealm/src/bean"
	"github.com/pwszpl/go-wlsrealm/src/resolver"
)

// DefaultRootBean is the domain runtime service bean of a stock domain.
const DefaultRootBean = "com.bea:Name=DomainRuntimeService,Type=weblogic.management.mbeanservers.domainruntime.DomainRuntimeServiceMBean"

// Transport names accepted in an endpoint profile.
const (
	TransportREST   = "rest"
	TransportTunnel = "tunnel"
)

// VariableNotFoundError is returned when a requested variable isn't present.
type VariableNotFoundError struct {
	VariableName string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf(
		"Variable %q referenced in the endpoint profile not found. "+
			"Please add it to the environment variables or to your client configuration.",
		e.VariableName,
	)
}

// VariablesConfig is the interface for any variable-loading strategy.
type VariablesConfig interface {
	// Load returns all variables available from this source.
	Load() (map[string]string, error)
	// Get returns a single variable value or an error if not present.
	Get(key string) (string, error)
}

// DotEnv implements VariablesConfig by loading a .env file.
type DotEnv struct {
	EnvFilePath string
}

func NewDotEnv(path string) *DotEnv {
	return &DotEnv{EnvFilePath: path}
}

// Load reads the .env file and returns a map of key to value.
func (d *DotEnv) Load() (map[string]string, error) {
	return godotenv.Read(d.EnvFilePath)
}

// Get loads the file and looks up a single key.
func (d *DotEnv) Get(key string) (string, error) {
	vars, err := d.Load()
	if err != nil {
		return "", err
	}
	if val, ok := vars[key]; ok {
		return val, nil
	}
	return "", &VariableNotFoundError{VariableName: key}
}

// ChainConfig names the discovery attribute chain. Zero fields fall back to
// the stock domain runtime layout.
type ChainConfig struct {
	RootBean      string `yaml:"root_bean"`
	DomainAttr    string `yaml:"domain_attr"`
	SecurityAttr  string `yaml:"security_attr"`
	RealmAttr     string `yaml:"realm_attr"`
	ProvidersAttr string `yaml:"providers_attr"`
	NameAttr      string `yaml:"name_attr"`
}

// Profile describes how to reach the management endpoint.
type Profile struct {
	Transport string `yaml:"transport"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

// ClientConfig holds the resolved variables, the endpoint profile and the
// discovery chain naming.
type ClientConfig struct {
	// Variables explicitly passed in (takes precedence).
	Variables map[string]string

	// Optional path to a YAML endpoint-profile file.
	ProfilePath string

	// Profile set directly, bypassing ProfilePath.
	Profile *Profile

	// A list of sources to load variables from (e.g. .env files).
	LoadVariablesFrom []VariablesConfig

	// Chain overrides the discovery attribute chain.
	Chain ChainConfig

	// Logger receives transport and cursor diagnostics. Nil means silent.
	Logger func(format string, args ...any)
}

// NewClientConfig constructs a config with sensible defaults.
func NewClientConfig() *ClientConfig {
	return &ClientConfig{
		Variables: make(map[string]string),
	}
}

// chain materializes the resolver chain, applying stock defaults for every
// field left empty.
func (c *ClientConfig) chain() resolver.Chain {
	root := c.Chain.RootBean
	if root == "" {
		root = DefaultRootBean
	}
	ch := resolver.DefaultChain(bean.Handle(root))
	if c.Chain.DomainAttr != "" {
		ch.DomainAttr = c.Chain.DomainAttr
	}
	if c.Chain.SecurityAttr != "" {
		ch.SecurityAttr = c.Chain.SecurityAttr
	}
	if c.Chain.RealmAttr != "" {
		ch.RealmAttr = c.Chain.RealmAttr
	}
	if c.Chain.ProvidersAttr != "" {
		ch.ProvidersAttr = c.Chain.ProvidersAttr
	}
	if c.Chain.NameAttr != "" {
		ch.NameAttr = c.Chain.NameAttr
	}
	return ch
}

// LoadProfile returns the endpoint profile, reading and expanding the YAML
// profile file on first use when none was set directly.
func (c *ClientConfig) LoadProfile() (*Profile, error) {
	if c.Profile != nil {
		return c.Profile, nil
	}
	if c.ProfilePath == "" {
		return nil, errors.New("no endpoint profile configured")
	}
	data, err := os.ReadFile(c.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("could not read profile %q: %w", c.ProfilePath, err)
	}

	var p Profile
	if err := yaml.Unmarshal([]byte(c.replaceVars(string(data))), &p); err != nil {
		return nil, fmt.Errorf("invalid YAML in profile %q: %w", c.ProfilePath, err)
	}
	c.Profile = &p
	return &p, nil
}

var varPattern = regexp.MustCompile(`\${(\w+)}|\$(\w+)`)

// replaceVars does ${VAR}/$VAR substitution, leaving unknown references as
// written.
func (c *ClientConfig) replaceVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		g := varPattern.FindStringSubmatch(match)
		name := g[1]
		if name == "" {
			name = g[2]
		}
		val, err := c.getVariable(name)
		if err != nil {
			return match
		}
		return val
	})
}

// getVariable checks inline variables, loaders, then os.Getenv.
func (c *ClientConfig) getVariable(key string) (string, error) {
	if v, ok := c.Variables[key]; ok {
		return v, nil
	}
	for _, loader := range c.LoadVariablesFrom {
		if val, err := loader.Get(key); err == nil && val != "" {
			return val, nil
		}
	}
	if env := os.Getenv(key); env != "" {
		return env, nil
	}
	return "", &VariableNotFoundError{VariableName: key}
}
