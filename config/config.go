package config

type P2PWireConfig struct {
	LogLevel       string            `mapstructure:"logLevel"`
	LogFormat      string            `mapstructure:"logFormat"`
	Network        string            `mapstructure:"network"`
	AuxPoW         *AuxPoWConfig     `mapstructure:"auxPoW"`
	MaxMessageSize int64             `mapstructure:"maxMessageSize"`
	ReadBufferSize int               `mapstructure:"readBufferSize"`
	DecodeWorkers  int               `mapstructure:"decodeWorkers"`
	Prometheus     *PrometheusConfig `mapstructure:"prometheus"`
	Tracing        *TracingConfig    `mapstructure:"tracing"`
}

// AuxPoWConfig overrides the AuxPoW parameters of the selected network when Override is set.
type AuxPoWConfig struct {
	Override          bool   `mapstructure:"override"`
	Enabled           bool   `mapstructure:"enabled"`
	ActivationVersion uint32 `mapstructure:"activationVersion"`
}

type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Addr     string `mapstructure:"addr"`
}

func (p *PrometheusConfig) IsEnabled() bool {
	return p != nil && p.Enabled && p.Addr != "" && p.Endpoint != ""
}

type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	DialAddr string `mapstructure:"dialAddr"`
	Sample   int    `mapstructure:"sample"`
}

func (t *TracingConfig) IsEnabled() bool {
	return t != nil && t.Enabled
}
