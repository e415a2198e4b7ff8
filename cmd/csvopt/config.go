package main

import (
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	csvoptimizer "github.com/timmueller0/csv-optimizer"
)

// Config holds loader options read from a YAML file.  Unset fields
// keep the loader defaults.
type Config struct {
	SampleFraction      *float64          `yaml:"sample_fraction"`
	ChunkSize           *int              `yaml:"chunksize"`
	UseFloatForNanInts  *bool             `yaml:"use_float_for_nan_ints"`
	UseFloatForNanBools *bool             `yaml:"use_float_for_nan_bools"`
	Encoding            string            `yaml:"encoding"`
	SingleStageSampling *bool             `yaml:"single_stage_sampling"`
	Seed                *int64            `yaml:"seed"`
	Delimiter           string            `yaml:"delimiter"`
	Comment             string            `yaml:"comment"`
	Header              *bool             `yaml:"header"`
	SkipRows            int               `yaml:"skiprows"`
	Names               []string          `yaml:"names"`
	UseColumns          []string          `yaml:"usecols"`
	NAValues            []string          `yaml:"na_values"`
	LazyQuotes          bool              `yaml:"lazy_quotes"`
	TrimLeadingSpace    bool              `yaml:"trim_leading_space"`
	Dtypes              map[string]string `yaml:"dtype"`
}

// loadConfig reads a YAML config file.
func loadConfig(fs afero.Fs, path string) (*Config, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg := new(Config)
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

func singleRune(name, s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	r, n := utf8.DecodeRuneInString(s)
	if n != len(s) {
		return 0, errors.Newf("%s must be a single character, got %q", name, s)
	}
	return r, nil
}

// apply copies the set fields of the config into l.
func (cfg *Config) apply(l *csvoptimizer.Loader) error {

	if cfg.SampleFraction != nil {
		l.SampleFraction = *cfg.SampleFraction
	}
	if cfg.ChunkSize != nil {
		l.ChunkSize = *cfg.ChunkSize
	}
	if cfg.UseFloatForNanInts != nil {
		l.UseFloatForNanInts = *cfg.UseFloatForNanInts
	}
	if cfg.UseFloatForNanBools != nil {
		l.UseFloatForNanBools = *cfg.UseFloatForNanBools
	}
	if cfg.Encoding != "" {
		l.Encoding = cfg.Encoding
	}
	if cfg.SingleStageSampling != nil {
		l.SingleStageSampling = *cfg.SingleStageSampling
	}
	if cfg.Seed != nil {
		l.Seed = *cfg.Seed
	}
	if cfg.Header != nil {
		l.HasHeader = *cfg.Header
	}
	l.SkipRows = cfg.SkipRows
	l.LazyQuotes = cfg.LazyQuotes
	l.TrimLeadingSpace = cfg.TrimLeadingSpace
	if cfg.Names != nil {
		l.ColumnNames = cfg.Names
	}
	if cfg.UseColumns != nil {
		l.UseColumns = cfg.UseColumns
	}
	if cfg.NAValues != nil {
		l.NAValues = cfg.NAValues
	}

	var err error
	if l.Delimiter, err = singleRune("delimiter", cfg.Delimiter); err != nil {
		return err
	}
	if l.Comment, err = singleRune("comment", cfg.Comment); err != nil {
		return err
	}

	if len(cfg.Dtypes) > 0 {
		l.TypeHints = make(map[string]csvoptimizer.Dtype, len(cfg.Dtypes))
		for c, name := range cfg.Dtypes {
			d, err := csvoptimizer.ParseDtype(name)
			if err != nil {
				return errors.Wrapf(err, "column %q", c)
			}
			l.TypeHints[c] = d
		}
	}
	return nil
}

// registerLoaderFlags defines the loader flags on fs.
func registerLoaderFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML file with loader options")
	fs.Float64("sample-fraction", 0.1, "fraction of rows sampled from every chunk")
	fs.Int("chunksize", 1000, "rows per chunk while sampling")
	fs.Bool("float-for-nan-ints", false, "store integer columns with missing values as float32")
	fs.Bool("float-for-nan-bools", false, "store 0/1 columns with missing values as float32")
	fs.String("encoding", "latin1", "text encoding of the file")
	fs.Bool("single-stage", false, "do not resample the concatenated chunk samples")
	fs.Int64("seed", 1, "seed of the row sampler")
	fs.String("delimiter", ",", "field delimiter")
	fs.Bool("no-header", false, "the first row holds data, not column names")
	fs.Int("skiprows", 0, "rows to skip before the header")
	fs.StringSlice("usecols", nil, "read only these columns")
	fs.StringSlice("na-values", nil, "field values treated as missing")
	fs.Bool("lazy-quotes", false, "allow quotes inside unquoted fields")
	fs.BoolP("verbose", "v", false, "log the inferred type of every column")
}

// applyFlags copies the flags set on the command line into l.  Flags
// take precedence over the config file.
func applyFlags(fs *pflag.FlagSet, l *csvoptimizer.Loader) error {

	var err error
	if fs.Changed("sample-fraction") {
		if l.SampleFraction, err = fs.GetFloat64("sample-fraction"); err != nil {
			return err
		}
	}
	if fs.Changed("chunksize") {
		if l.ChunkSize, err = fs.GetInt("chunksize"); err != nil {
			return err
		}
	}
	if fs.Changed("float-for-nan-ints") {
		if l.UseFloatForNanInts, err = fs.GetBool("float-for-nan-ints"); err != nil {
			return err
		}
	}
	if fs.Changed("float-for-nan-bools") {
		if l.UseFloatForNanBools, err = fs.GetBool("float-for-nan-bools"); err != nil {
			return err
		}
	}
	if fs.Changed("encoding") {
		if l.Encoding, err = fs.GetString("encoding"); err != nil {
			return err
		}
	}
	if fs.Changed("single-stage") {
		if l.SingleStageSampling, err = fs.GetBool("single-stage"); err != nil {
			return err
		}
	}
	if fs.Changed("seed") {
		if l.Seed, err = fs.GetInt64("seed"); err != nil {
			return err
		}
	}
	if fs.Changed("delimiter") {
		d, err := fs.GetString("delimiter")
		if err != nil {
			return err
		}
		if d == `\t` {
			d = "\t"
		}
		if l.Delimiter, err = singleRune("delimiter", d); err != nil {
			return err
		}
	}
	if fs.Changed("no-header") {
		noHeader, err := fs.GetBool("no-header")
		if err != nil {
			return err
		}
		l.HasHeader = !noHeader
	}
	if fs.Changed("skiprows") {
		if l.SkipRows, err = fs.GetInt("skiprows"); err != nil {
			return err
		}
	}
	if fs.Changed("usecols") {
		if l.UseColumns, err = fs.GetStringSlice("usecols"); err != nil {
			return err
		}
	}
	if fs.Changed("na-values") {
		if l.NAValues, err = fs.GetStringSlice("na-values"); err != nil {
			return err
		}
	}
	if fs.Changed("lazy-quotes") {
		if l.LazyQuotes, err = fs.GetBool("lazy-quotes"); err != nil {
			return err
		}
	}
	return nil
}
