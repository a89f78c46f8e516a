package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// noticeOutput receives resolver notices when neither WithLogger nor
// zap.ReplaceGlobals supplied a logger.
var noticeOutput zapcore.WriteSyncer = zapcore.Lock(os.Stderr)

// Resolver builds a Config from the built-in defaults and an optional local
// override file.
type Resolver struct {
	dir    string
	names  []string
	logger *zap.Logger
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithDir sets the directory searched for the override file. Default ".".
func WithDir(dir string) Option {
	return func(r *Resolver) {
		r.dir = dir
	}
}

// WithFileNames replaces DefaultOverrideNames.
func WithFileNames(names ...string) Option {
	return func(r *Resolver) {
		r.names = names
	}
}

// WithLogger sets the logger notices are written to. Default zap.L(), or a
// console logger on stderr while the global logger is still the no-op one.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver returns a Resolver with the given options applied.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		dir:   ".",
		names: DefaultOverrideNames,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = defaultLogger()
	}
	return r
}

// defaultLogger returns zap.L() unless it is the no-op logger zap starts
// with, in which case notices go to noticeOutput.
func defaultLogger() *zap.Logger {
	if l := zap.L(); l.Core() != zapcore.NewNopCore() {
		return l
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, noticeOutput, zap.InfoLevel))
}

// Resolve is NewResolver().Resolve().
func Resolve() *Config {
	return NewResolver().Resolve()
}

// Resolve returns the defaults deep-merged with the local override file.
//
// A missing override logs one informational notice. An override that cannot
// be read, parsed or decoded logs one warning with the error. In both cases
// the defaults are returned; Resolve never fails.
func (r *Resolver) Resolve() *Config {
	env, err := LoadEnv()
	if err != nil {
		r.logger.Warn("Ignoring environment", zap.Error(err))
	}
	defaults := Defaults(env)

	res := LoadOverride(r.dir, r.names)
	switch res.Kind {
	case OverrideNotFound:
		r.logger.Info("No local config found. Using all defaults...", zap.String("dir", r.dir))
		return defaults
	case OverrideLoadFailed:
		r.logger.Warn("Tried processing local config but got error", zap.String("path", res.Path), zap.Error(res.Err))
		return defaults
	}

	merged, unused, err := decode(Merge(defaults.Tree(), res.Tree))
	if err != nil {
		r.logger.Warn("Tried processing local config but got error",
			zap.String("path", res.Path),
			zap.Error(&OverrideLoadError{Path: res.Path, Err: err}))
		return defaults
	}
	if len(unused) > 0 {
		r.logger.Debug("Unknown keys in local config", zap.String("path", res.Path), zap.Strings("keys", unused))
	}
	r.logger.Debug("Merged local config", zap.String("path", res.Path))

	return merged
}
