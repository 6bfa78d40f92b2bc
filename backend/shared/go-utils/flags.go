package utils

import (
	"fmt"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
)

const LDConnectionTimeout = 5 * time.Second

// FlagSource resolves static feature flags once at startup.
type FlagSource interface {
	Bool(key string, def bool) bool
	String(key, def string) string
	Close() error
}

// NewFlagSource connects to LaunchDarkly when sdkKey is set; otherwise every
// flag resolves to its default.
func NewFlagSource(sdkKey, contextKind, contextKey string) (FlagSource, error) {
	if sdkKey == "" {
		Logger.Info("LD_SDK_KEY not set; feature flags use defaults")
		return StaticFlags{}, nil
	}

	ldClient, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		return nil, fmt.Errorf("create LaunchDarkly client: %w", err)
	}
	if !ldClient.Initialized() {
		ldClient.Close()
		return nil, fmt.Errorf("LaunchDarkly client failed to initialize")
	}

	return &ldFlagSource{
		client:  ldClient,
		context: ldcontext.NewWithKind(ldcontext.Kind(contextKind), contextKey),
	}, nil
}

type ldFlagSource struct {
	client  *ld.LDClient
	context ldcontext.Context
}

func (s *ldFlagSource) Bool(key string, def bool) bool {
	v, err := s.client.BoolVariation(key, s.context, def)
	if err != nil {
		Logger.WithError(err).Warnf("Error retrieving %s flag; using default %t", key, def)
		return def
	}
	Logger.Debugf("%s flag: %t", key, v)
	return v
}

func (s *ldFlagSource) String(key, def string) string {
	v, err := s.client.StringVariation(key, s.context, def)
	if err != nil {
		Logger.WithError(err).Warnf("Error retrieving %s flag; using default %q", key, def)
		return def
	}
	Logger.Debugf("%s flag: %s", key, v)
	return v
}

func (s *ldFlagSource) Close() error {
	return s.client.Close()
}

// StaticFlags serves fixed values, falling back to the caller's default.
type StaticFlags map[string]any

func (f StaticFlags) Bool(key string, def bool) bool {
	if v, ok := f[key].(bool); ok {
		return v
	}
	return def
}

func (f StaticFlags) String(key, def string) string {
	if v, ok := f[key].(string); ok {
		return v
	}
	return def
}

func (f StaticFlags) Close() error { return nil }
